package dto

type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ThumbnailResponse struct {
	Title          string           `json:"title"`
	TitleColor     string           `json:"titleColor"`
	TitleFontSize  float64          `json:"titleFontSize"`
	TitleFontStyle string           `json:"titleFontStyle"`
	TitleSpacing   float64          `json:"titleSpacing"`
	BgImage        string           `json:"bgImage"`
	FgImage        string           `json:"fgImage"`
	FgPosition     PositionResponse `json:"fgPosition"`
	FgScale        float64          `json:"fgScale"`
	FgRotation     float64          `json:"fgRotation"`
}

type StateResponse struct {
	ID      string            `json:"id"`
	Version uint64            `json:"version"`
	Data    ThumbnailResponse `json:"data"`
}

type PointerResponse struct {
	Drag  string         `json:"drag"`
	State *StateResponse `json:"state,omitempty"`
}

type RangeResponse struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

type ControlResponse struct {
	Field   string         `json:"field"`
	Label   string         `json:"label"`
	Kind    string         `json:"kind"`
	Range   *RangeResponse `json:"range,omitempty"`
	Options []string       `json:"options,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
