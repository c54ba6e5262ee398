package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"thumbnail-creator/internal/domain"

	"github.com/wb-go/wbf/zlog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const decodeCacheSize = 32

var containerBackground = color.NRGBA{A: 255}

// Renderer rasterizes ThumbnailData into the three layer stack: background,
// title, foreground.
type Renderer struct {
	fonts   *FontBook
	sources *imageSource
	logger  *zlog.Zerolog
}

func NewRenderer(fonts *FontBook, logger *zlog.Zerolog) *Renderer {
	return &Renderer{
		fonts:   fonts,
		sources: newImageSource(decodeCacheSize),
		logger:  logger,
	}
}

// Render draws d into a new 16:9 canvas of the given width. A layer whose
// image cannot be resolved is left out; that is not an error.
func (r *Renderer) Render(ctx context.Context, d domain.ThumbnailData, width int) (*image.RGBA, error) {
	if width <= 0 {
		return nil, fmt.Errorf("render width must be positive, got %d", width)
	}
	l := NewLayout(width)
	size := l.Size()
	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(containerBackground), image.Point{}, draw.Src)

	if bg := r.resolve(d.BgImage, domain.LayerBackground); bg != nil {
		drawCover(canvas, bg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.drawTitle(canvas, l, d)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fg := r.resolve(d.FgImage, domain.LayerForeground); fg != nil {
		drawForeground(canvas, l, d, fg)
	}
	return canvas, nil
}

func (r *Renderer) resolve(ref domain.ImageRef, layer domain.Layer) image.Image {
	img, err := r.sources.Resolve(ref)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("layer", string(layer)).
			Str("source", ref.String()).
			Msg("Image layer not rendered")
		return nil
	}
	return img
}

// drawCover scales img to fill dst completely, cropping the overflow
// symmetrically.
func drawCover(dst *image.RGBA, img image.Image) {
	b := img.Bounds()
	crop := coverRect(b.Dx(), b.Dy(), dst.Bounds().Dx(), dst.Bounds().Dy())
	if crop.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, crop.Add(b.Min), xdraw.Over, nil)
}

// maxLayerExtent caps the drawn foreground size in pixels. Beyond it a
// single source pixel already spans the largest canvas.
const maxLayerExtent = 1 << 22

// drawForeground contains img in the foreground box, scales and rotates it
// about its center, and pins that center at the anchor position. The layer is
// resampled straight into dst, so the cost depends on the canvas and not on
// the scale.
func drawForeground(dst *image.RGBA, l Layout, d domain.ThumbnailData, img image.Image) {
	if d.FgScale == 0 || !finite(d.FgScale) || !finite(d.FgRotation) {
		return
	}
	b := img.Bounds()
	boxW, boxH := l.ForegroundBox()
	fitW, fitH := containSize(b.Dx(), b.Dy(), boxW, boxH)

	// Under a pixel in either direction the layer is invisible.
	scale := math.Abs(d.FgScale)
	if fitW*scale < 1 || fitH*scale < 1 {
		return
	}
	scale = math.Min(scale, maxLayerExtent/math.Max(fitW, fitH))

	cx, cy := l.Anchor(d.FgPosition)
	if !finite(cx) || !finite(cy) {
		return
	}
	reach := math.Hypot(fitW, fitH) * scale / 2
	if cx+reach < 0 || cy+reach < 0 || cx-reach > l.Width || cy-reach > l.Height {
		return
	}

	// Source pixels to canvas pixels. A negative scale turns the layer half
	// way round; positive rotation is clockwise.
	m := fitW / float64(b.Dx()) * scale
	if d.FgScale < 0 {
		m = -m
	}
	sin, cos := math.Sincos(d.FgRotation * math.Pi / 180)
	a, c := m*cos, -m*sin
	e, f := m*sin, m*cos
	ox := float64(b.Min.X) + float64(b.Dx())/2
	oy := float64(b.Min.Y) + float64(b.Dy())/2

	s2d := f64.Aff3{
		a, c, cx - a*ox - c*oy,
		e, f, cy - e*ox - f*oy,
	}
	xdraw.CatmullRom.Transform(dst, s2d, img, b, xdraw.Over, nil)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
