package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"thumbnail-creator/internal/domain"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type caseTransform int

const (
	caseNone caseTransform = iota
	caseUpper
	caseLower
)

type titleStyle struct {
	family     fontFamily
	variant    fontVariant
	extraBold  bool
	transform  caseTransform
	trackingEm float64
	lineHeight float64
}

// resolveTitleStyle turns a token set into concrete text attributes. When
// tokens of one group conflict, the later catalog entry wins.
func resolveTitleStyle(set domain.StyleSet) titleStyle {
	st := titleStyle{family: familySans, lineHeight: 1.5}

	switch {
	case set.Has(domain.StyleFontExtrabold):
		st.variant.bold = true
		st.extraBold = true
	case set.Has(domain.StyleFontBold):
		st.variant.bold = true
	}
	st.variant.italic = set.Has(domain.StyleItalic)

	switch {
	case set.Has(domain.StyleLowercase):
		st.transform = caseLower
	case set.Has(domain.StyleUppercase):
		st.transform = caseUpper
	}

	switch {
	case set.Has(domain.StyleFontMono):
		st.family = familyMono
	case set.Has(domain.StyleFontSerif):
		st.family = familySerif
	}

	switch {
	case set.Has(domain.StyleTrackingWide):
		st.trackingEm = 0.025
	case set.Has(domain.StyleTrackingTight):
		st.trackingEm = -0.025
	}

	switch {
	case set.Has(domain.StyleLeadingLoose):
		st.lineHeight = 2
	case set.Has(domain.StyleLeadingTight):
		st.lineHeight = 1.25
	}
	return st
}

func (st titleStyle) apply(text string) string {
	switch st.transform {
	case caseUpper:
		return strings.ToUpper(text)
	case caseLower:
		return strings.ToLower(text)
	default:
		return text
	}
}

var (
	titleOutline = color.NRGBA{A: 255}

	// 1px outline, painted as offset copies around each glyph.
	strokeOffsets = []image.Point{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}

	// Hard 2px shadows toward all four diagonals.
	shadowOffsets = []image.Point{{2, 2}, {-2, -2}, {2, -2}, {-2, 2}}
)

// maxGlyphScale bounds a single glyph's box relative to the canvas. A title
// past it cannot show even one whole letter.
const maxGlyphScale = 2

type titleLine struct {
	text  string
	width fixed.Int26_6
}

type titleBlock struct {
	face       font.Face
	spacing    fixed.Int26_6
	lines      []titleLine
	lineHeight float64
	extraBold  bool
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// measure returns the advance of s including letter spacing after every
// character.
func measure(face font.Face, s string, spacing fixed.Int26_6) fixed.Int26_6 {
	var w fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			w += face.Kern(prev, r)
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('�')
		}
		w += adv + spacing
		prev = r
	}
	return w
}

// wrap breaks text into lines no wider than maxWidth, splitting at spaces
// and explicit newlines. A single word wider than maxWidth keeps its own line.
func wrap(face font.Face, text string, spacing, maxWidth fixed.Int26_6) []titleLine {
	var lines []titleLine
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, titleLine{})
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if measure(face, candidate, spacing) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, titleLine{text: current, width: measure(face, current, spacing)})
			current = word
		}
		lines = append(lines, titleLine{text: current, width: measure(face, current, spacing)})
	}
	return lines
}

func (r *Renderer) layoutTitle(l Layout, d domain.ThumbnailData) *titleBlock {
	if strings.TrimSpace(d.Title) == "" || !(d.TitleFontSize > 0) || math.IsInf(d.TitleFontSize, 0) {
		return nil
	}
	st := resolveTitleStyle(d.TitleFontStyle)
	if w, h := r.fonts.GlyphExtent(st.family, st.variant, d.TitleFontSize); w > maxGlyphScale*l.Width || h > maxGlyphScale*l.Height {
		r.logger.Debug().Float64("font_size", d.TitleFontSize).Msg("Title larger than canvas, not rendered")
		return nil
	}
	face := r.fonts.Face(st.family, st.variant, d.TitleFontSize)
	spacing := toFixed(d.TitleSpacing + st.trackingEm*d.TitleFontSize)
	maxWidth := toFixed(l.Width - 2*domain.TitlePadding)

	return &titleBlock{
		face:       face,
		spacing:    spacing,
		lines:      wrap(face, st.apply(d.Title), spacing, maxWidth),
		lineHeight: d.TitleFontSize * st.lineHeight,
		extraBold:  st.extraBold,
	}
}

// drawTitle paints the centered title with its fixed legibility treatment:
// diagonal shadows first, then the outline, then the fill.
func (r *Renderer) drawTitle(dst draw.Image, l Layout, d domain.ThumbnailData) {
	block := r.layoutTitle(l, d)
	if block == nil {
		return
	}
	defer block.face.Close()

	fill, err := parseColor(d.TitleColor)
	if err != nil {
		r.logger.Debug().Err(err).Str("color", d.TitleColor).Msg("Invalid title color, using white")
		fill = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}

	metrics := block.face.Metrics()
	ascent := fromFixed(metrics.Ascent)
	glyphHeight := ascent + fromFixed(metrics.Descent)
	top := (l.Height - block.lineHeight*float64(len(block.lines))) / 2

	outline := image.NewUniform(titleOutline)
	src := image.NewUniform(fill)

	for i, line := range block.lines {
		if line.text == "" {
			continue
		}
		x := (l.Width - fromFixed(line.width)) / 2
		baseline := top + float64(i)*block.lineHeight + (block.lineHeight-glyphHeight)/2 + ascent
		origin := fixed.Point26_6{X: toFixed(x), Y: toFixed(baseline)}

		for _, off := range shadowOffsets {
			drawRun(dst, block.face, outline, origin.Add(fixed.P(off.X, off.Y)), line.text, block.spacing)
		}
		for _, off := range strokeOffsets {
			drawRun(dst, block.face, outline, origin.Add(fixed.P(off.X, off.Y)), line.text, block.spacing)
		}
		drawRun(dst, block.face, src, origin, line.text, block.spacing)
		if block.extraBold {
			drawRun(dst, block.face, src, origin.Add(fixed.Point26_6{X: 32}), line.text, block.spacing)
		}
	}
}

func drawRun(dst draw.Image, face font.Face, src image.Image, dot fixed.Point26_6, s string, spacing fixed.Int26_6) {
	d := &font.Drawer{Dst: dst, Src: src, Face: face}
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		d.Dot = dot
		d.DrawString(string(r))
		dot.X = d.Dot.X + spacing
		prev = r
	}
}

// parseColor accepts #RGB, #RRGGBB and #RRGGBBAA, or an "r,g,b[,a]" triple.
func parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHexColor(hex)
	}

	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color format %q", s)
	}
	vals := [4]uint8{255, 255, 255, 255}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color value %q", p)
		}
		vals[i] = uint8(clamp(v, 0, 255))
	}
	return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color: %w", err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func clamp(value, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), float64(value))))
}
