package compositor

import (
	"image"
	"math"

	"thumbnail-creator/internal/domain"
)

// Rect is the on-screen box of the preview container, in client coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Layout is the geometry of a preview container. All layers are placed
// relative to it.
type Layout struct {
	Width  float64
	Height float64
}

// NewLayout returns a 16:9 layout for the given pixel width.
func NewLayout(width int) Layout {
	return Layout{
		Width:  float64(width),
		Height: math.Round(float64(width) * domain.AspectHeight / domain.AspectWidth),
	}
}

func LayoutOf(r Rect) Layout {
	return Layout{Width: r.Width, Height: r.Height}
}

func (l Layout) Size() image.Point {
	return image.Pt(int(math.Round(l.Width)), int(math.Round(l.Height)))
}

// Anchor maps a percentage position to container pixels.
func (l Layout) Anchor(p domain.Position) (x, y float64) {
	return p.X / 100 * l.Width, p.Y / 100 * l.Height
}

// ForegroundBox is the unscaled box the foreground image is contained in.
func (l Layout) ForegroundBox() (w, h float64) {
	return l.Width * domain.ForegroundBoxRatio, l.Height * domain.ForegroundBoxRatio
}

// ForegroundContains reports whether the container point (x, y) falls on the
// foreground box after its scale and rotation are applied.
func (l Layout) ForegroundContains(d domain.ThumbnailData, x, y float64) bool {
	if d.FgScale == 0 || !d.FgImage.IsSet() {
		return false
	}
	cx, cy := l.Anchor(d.FgPosition)
	dx, dy := x-cx, y-cy

	theta := d.FgRotation * math.Pi / 180
	sin, cos := math.Sincos(theta)
	lx := (dx*cos + dy*sin) / d.FgScale
	ly := (-dx*sin + dy*cos) / d.FgScale

	bw, bh := l.ForegroundBox()
	return math.Abs(lx) <= bw/2 && math.Abs(ly) <= bh/2
}

// PositionFromPointer converts a client pointer location into a percentage
// position inside r. It reports false for an empty rectangle.
func PositionFromPointer(r Rect, px, py float64) (domain.Position, bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return domain.Position{}, false
	}
	return domain.Position{
		X: (px - r.Left) / r.Width * 100,
		Y: (py - r.Top) / r.Height * 100,
	}, true
}

// containSize fits a src sized image inside a box, keeping its aspect ratio.
func containSize(srcW, srcH int, boxW, boxH float64) (float64, float64) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	ratio := math.Min(boxW/float64(srcW), boxH/float64(srcH))
	return float64(srcW) * ratio, float64(srcH) * ratio
}

// coverRect returns the centered region of a src sized image that, scaled,
// exactly fills a dstW x dstH area.
func coverRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}
	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(dstW) / float64(dstH)

	if srcRatio > dstRatio {
		cropW := int(math.Round(float64(srcH) * dstRatio))
		x := (srcW - cropW) / 2
		return image.Rect(x, 0, x+cropW, srcH)
	}
	cropH := int(math.Round(float64(srcW) / dstRatio))
	y := (srcH - cropH) / 2
	return image.Rect(0, y, srcW, y+cropH)
}
