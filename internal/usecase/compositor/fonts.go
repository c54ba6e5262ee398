package compositor

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type fontFamily int

const (
	familySans fontFamily = iota
	familySerif
	familyMono
)

type fontVariant struct {
	bold   bool
	italic bool
}

// FontBook holds the parsed faces for every family and variant the title
// layer can ask for.
type FontBook struct {
	fonts map[fontFamily]map[fontVariant]*truetype.Font
}

// NewFontBook parses the embedded Go fonts. serifPath optionally names a
// TrueType file used for every serif variant; without it serif text falls
// back to the sans faces.
func NewFontBook(serifPath string) (*FontBook, error) {
	sans, err := parseVariants(goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load sans fonts: %w", err)
	}
	mono, err := parseVariants(gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load mono fonts: %w", err)
	}

	serif := sans
	if serifPath != "" {
		data, err := os.ReadFile(serifPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read serif font: %w", err)
		}
		serif, err = parseVariants(data, data, data, data)
		if err != nil {
			return nil, fmt.Errorf("failed to load serif font: %w", err)
		}
	}

	return &FontBook{
		fonts: map[fontFamily]map[fontVariant]*truetype.Font{
			familySans:  sans,
			familySerif: serif,
			familyMono:  mono,
		},
	}, nil
}

func parseVariants(regular, bold, italic, boldItalic []byte) (map[fontVariant]*truetype.Font, error) {
	out := make(map[fontVariant]*truetype.Font, 4)
	for v, data := range map[fontVariant][]byte{
		{}:                         regular,
		{bold: true}:               bold,
		{italic: true}:             italic,
		{bold: true, italic: true}: boldItalic,
	} {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, err
		}
		out[v] = f
	}
	return out, nil
}

// Face returns a face of the given style at size pixels. Faces are built
// per render and drawn with once, so the glyph mask cache holds one entry.
func (b *FontBook) Face(family fontFamily, v fontVariant, size float64) font.Face {
	return truetype.NewFace(b.font(family, v), &truetype.Options{
		Size:              size,
		DPI:               72,
		Hinting:           font.HintingFull,
		GlyphCacheEntries: 1,
	})
}

// GlyphExtent is the size in pixels of the union of every glyph's bounds at
// size, the area a face rasterizes each glyph into.
func (b *FontBook) GlyphExtent(family fontFamily, v fontVariant, size float64) (w, h float64) {
	const ref = 100
	r := b.font(family, v).Bounds(fixed.I(ref))
	k := size / ref
	return float64(r.Max.X-r.Min.X) / 64 * k, float64(r.Max.Y-r.Min.Y) / 64 * k
}

func (b *FontBook) font(family fontFamily, v fontVariant) *truetype.Font {
	if f := b.fonts[family][v]; f != nil {
		return f
	}
	return b.fonts[familySans][fontVariant{}]
}
