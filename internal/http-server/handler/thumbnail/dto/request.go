package dto

type TextRequest struct {
	Value string `json:"value"`
}

type ColorRequest struct {
	Value string `json:"value" validate:"required,hexcolor"`
}

type NumberRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

type PositionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// PatchRequest is a partial thumbnail. Absent fields are left unchanged.
// Image fields take a data URI, a built-in placeholder path, or "" to clear
// the layer.
type PatchRequest struct {
	Title          *string          `json:"title"`
	TitleColor     *string          `json:"titleColor" validate:"omitempty,hexcolor"`
	TitleFontSize  *float64         `json:"titleFontSize"`
	TitleFontStyle *[]string        `json:"titleFontStyle"`
	TitleSpacing   *float64         `json:"titleSpacing"`
	BgImage        *string          `json:"bgImage"`
	FgImage        *string          `json:"fgImage"`
	FgPosition     *PositionRequest `json:"fgPosition"`
	FgScale        *float64         `json:"fgScale"`
	FgRotation     *float64         `json:"fgRotation"`
}

type RectRequest struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type PointerRequest struct {
	Type string      `json:"type" validate:"required,oneof=down move up leave"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Rect RectRequest `json:"rect"`
}
