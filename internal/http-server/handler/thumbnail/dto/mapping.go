package dto

import (
	"fmt"
	"strings"

	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
	"thumbnail-creator/internal/usecase/controls"
)

func NewStateResponse(id string, st editor.State) StateResponse {
	d := st.Data
	return StateResponse{
		ID:      id,
		Version: st.Version,
		Data: ThumbnailResponse{
			Title:          d.Title,
			TitleColor:     d.TitleColor,
			TitleFontSize:  d.TitleFontSize,
			TitleFontStyle: d.TitleFontStyle.String(),
			TitleSpacing:   d.TitleSpacing,
			BgImage:        d.BgImage.Value(),
			FgImage:        d.FgImage.Value(),
			FgPosition:     PositionResponse{X: d.FgPosition.X, Y: d.FgPosition.Y},
			FgScale:        d.FgScale,
			FgRotation:     d.FgRotation,
		},
	}
}

func NewControlResponses(catalog []controls.Control) []ControlResponse {
	out := make([]ControlResponse, 0, len(catalog))
	for _, c := range catalog {
		resp := ControlResponse{
			Field:   c.Field,
			Label:   c.Label,
			Kind:    string(c.Kind),
			Options: c.Options,
		}
		if c.Range != nil {
			resp.Range = &RangeResponse{Min: c.Range.Min, Max: c.Range.Max, Step: c.Range.Step}
		}
		out = append(out, resp)
	}
	return out
}

// ToPatch converts the request into a domain patch, rejecting unknown style
// tokens and image sources that are neither data URIs nor placeholders.
func (r PatchRequest) ToPatch() (domain.Patch, error) {
	p := domain.Patch{
		Title:         r.Title,
		TitleColor:    r.TitleColor,
		TitleFontSize: r.TitleFontSize,
		TitleSpacing:  r.TitleSpacing,
		FgScale:       r.FgScale,
		FgRotation:    r.FgRotation,
	}

	if r.TitleFontStyle != nil {
		set, err := domain.ParseStyleSet(strings.Join(*r.TitleFontStyle, " "))
		if err != nil {
			return domain.Patch{}, err
		}
		p.TitleFontStyle = &set
	}
	if r.FgPosition != nil {
		pos := domain.Position{X: *r.FgPosition.X, Y: *r.FgPosition.Y}
		p.FgPosition = &pos
	}
	if r.BgImage != nil {
		ref, err := ParseImageRef(*r.BgImage)
		if err != nil {
			return domain.Patch{}, err
		}
		p.BgImage = &ref
	}
	if r.FgImage != nil {
		ref, err := ParseImageRef(*r.FgImage)
		if err != nil {
			return domain.Patch{}, err
		}
		p.FgImage = &ref
	}
	return p, nil
}

// ParseImageRef reads the wire form of an image field. Remote URLs are not
// accepted.
func ParseImageRef(s string) (domain.ImageRef, error) {
	switch {
	case s == "":
		return domain.UnsetImage(), nil
	case s == domain.PlaceholderBackground || s == domain.PlaceholderForeground:
		return domain.PlaceholderImage(s), nil
	case strings.HasPrefix(s, "data:"):
		if _, _, err := domain.DecodeDataURI(s); err != nil {
			return domain.ImageRef{}, err
		}
		return domain.DataImage(s), nil
	default:
		return domain.ImageRef{}, fmt.Errorf("%w: unsupported image source", domain.ErrInvalidDataURI)
	}
}
