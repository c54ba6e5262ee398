package domain

// Patch is a partial update: nil fields are left untouched by Merge.
type Patch struct {
	Title          *string
	TitleColor     *string
	TitleFontSize  *float64
	TitleFontStyle *StyleSet
	TitleSpacing   *float64
	BgImage        *ImageRef
	FgImage        *ImageRef
	FgPosition     *Position
	FgScale        *float64
	FgRotation     *float64
}

// Merge overwrites the fields named by p and returns the result.
// The receiver is not modified.
func (d ThumbnailData) Merge(p Patch) ThumbnailData {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.TitleColor != nil {
		d.TitleColor = *p.TitleColor
	}
	if p.TitleFontSize != nil {
		d.TitleFontSize = *p.TitleFontSize
	}
	if p.TitleFontStyle != nil {
		d.TitleFontStyle = *p.TitleFontStyle
	}
	if p.TitleSpacing != nil {
		d.TitleSpacing = *p.TitleSpacing
	}
	if p.BgImage != nil {
		d.BgImage = *p.BgImage
	}
	if p.FgImage != nil {
		d.FgImage = *p.FgImage
	}
	if p.FgPosition != nil {
		d.FgPosition = *p.FgPosition
	}
	if p.FgScale != nil {
		d.FgScale = *p.FgScale
	}
	if p.FgRotation != nil {
		d.FgRotation = *p.FgRotation
	}
	return d
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Fields names the fields carried by p, for logging.
func (p Patch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.TitleColor != nil, "titleColor")
	add(p.TitleFontSize != nil, "titleFontSize")
	add(p.TitleFontStyle != nil, "titleFontStyle")
	add(p.TitleSpacing != nil, "titleSpacing")
	add(p.BgImage != nil, "bgImage")
	add(p.FgImage != nil, "fgImage")
	add(p.FgPosition != nil, "fgPosition")
	add(p.FgScale != nil, "fgScale")
	add(p.FgRotation != nil, "fgRotation")
	return out
}

func TitlePatch(v string) Patch          { return Patch{Title: &v} }
func TitleColorPatch(v string) Patch     { return Patch{TitleColor: &v} }
func TitleFontSizePatch(v float64) Patch { return Patch{TitleFontSize: &v} }
func TitleFontStylePatch(v StyleSet) Patch {
	return Patch{TitleFontStyle: &v}
}
func TitleSpacingPatch(v float64) Patch { return Patch{TitleSpacing: &v} }
func FgPositionPatch(x, y float64) Patch {
	return Patch{FgPosition: &Position{X: x, Y: y}}
}
func FgScalePatch(v float64) Patch    { return Patch{FgScale: &v} }
func FgRotationPatch(v float64) Patch { return Patch{FgRotation: &v} }

// ImagePatch targets the image field of the given layer.
func ImagePatch(layer Layer, ref ImageRef) Patch {
	if layer == LayerForeground {
		return Patch{FgImage: &ref}
	}
	return Patch{BgImage: &ref}
}
