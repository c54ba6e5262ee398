package domain

import (
	"fmt"
	"strings"
)

// Position is the foreground anchor in percent of the preview box, from its
// top-left corner. Both axes always travel together.
type Position struct {
	X float64
	Y float64
}

type ThumbnailData struct {
	Title          string
	TitleColor     string
	TitleFontSize  float64
	TitleFontStyle StyleSet
	TitleSpacing   float64
	BgImage        ImageRef
	FgImage        ImageRef
	FgPosition     Position
	FgScale        float64
	FgRotation     float64
}

func DefaultThumbnail() ThumbnailData {
	return ThumbnailData{
		Title:          DefaultTitle,
		TitleColor:     DefaultTitleColor,
		TitleFontSize:  DefaultTitleFontSize,
		TitleFontStyle: NewStyleSet(StyleFontBold),
		TitleSpacing:   0,
		BgImage:        PlaceholderImage(PlaceholderBackground),
		FgImage:        PlaceholderImage(PlaceholderForeground),
		FgPosition:     Position{X: 50, Y: 50},
		FgScale:        1,
		FgRotation:     0,
	}
}

// Image returns the reference held by the given layer's field.
func (d ThumbnailData) Image(layer Layer) ImageRef {
	if layer == LayerForeground {
		return d.FgImage
	}
	return d.BgImage
}

type Layer string

const (
	LayerBackground Layer = "background"
	LayerForeground Layer = "foreground"
)

func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background", "bg", "bgimage":
		return LayerBackground, nil
	case "foreground", "fg", "fgimage":
		return LayerForeground, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
	}
}

// Range is the declared practical bound of a numeric field. It is advisory:
// values outside it are stored as given.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	TitleFontSizeRange = Range{Min: 12, Max: 200, Step: 1}
	TitleSpacingRange  = Range{Min: -10, Max: 50, Step: 1}
	FgScaleRange       = Range{Min: 0.1, Max: 2, Step: 0.1}
	FgRotationRange    = Range{Min: -180, Max: 180, Step: 1}
)

const (
	DefaultTitle         = "Your Video Title"
	DefaultTitleColor    = "#FFFFFF"
	DefaultTitleFontSize = 48
)

const (
	ExportFilename    = "youtube-thumbnail.png"
	ExportContentType = "image/png"
)

const (
	AspectWidth  = 16
	AspectHeight = 9

	// Foreground box edge as a fraction of the container edge.
	ForegroundBoxRatio = 0.5

	// Horizontal padding around the title block, in pixels.
	TitlePadding = 16

	DefaultPreviewWidth  = 1280
	DefaultMaxUploadSize = 32 << 20
)
