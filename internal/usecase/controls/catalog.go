package controls

import "thumbnail-creator/internal/domain"

type ControlKind string

const (
	KindText   ControlKind = "text"
	KindColor  ControlKind = "color"
	KindRange  ControlKind = "range"
	KindToggle ControlKind = "toggle"
	KindFile   ControlKind = "file"
)

// Control describes one editable field of the thumbnail.
type Control struct {
	Field   string
	Label   string
	Kind    ControlKind
	Range   *domain.Range
	Options []string
}

func rangeOf(r domain.Range) *domain.Range { return &r }

// Catalog lists the controls in panel order.
func Catalog() []Control {
	styles := make([]string, 0, len(domain.StyleTokens()))
	for _, t := range domain.StyleTokens() {
		styles = append(styles, t.String())
	}

	return []Control{
		{Field: "title", Label: "Title", Kind: KindText},
		{Field: "titleColor", Label: "Title Color", Kind: KindColor},
		{Field: "titleFontSize", Label: "Font Size", Kind: KindRange, Range: rangeOf(domain.TitleFontSizeRange)},
		{Field: "titleSpacing", Label: "Letter Spacing", Kind: KindRange, Range: rangeOf(domain.TitleSpacingRange)},
		{Field: "titleFontStyle", Label: "Font Style", Kind: KindToggle, Options: styles},
		{Field: "bgImage", Label: "Background Image", Kind: KindFile, Options: []string{"image/*"}},
		{Field: "fgImage", Label: "Foreground Image", Kind: KindFile, Options: []string{"image/*"}},
		{Field: "fgScale", Label: "Foreground Scale", Kind: KindRange, Range: rangeOf(domain.FgScaleRange)},
		{Field: "fgRotation", Label: "Foreground Rotation", Kind: KindRange, Range: rangeOf(domain.FgRotationRange)},
	}
}
