package thumbnail

import (
	"context"
	"image"
	"io"

	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
	"thumbnail-creator/internal/usecase/compositor"
	"thumbnail-creator/internal/usecase/export"
)

type studioUsecase interface {
	Create(ctx context.Context) (string, editor.State, error)
	State(ctx context.Context, id string) (editor.State, error)
	Close(id string) error
	Merge(ctx context.Context, id string, p domain.Patch) (editor.State, error)
	SetTitle(ctx context.Context, id, title string) (editor.State, error)
	SetTitleColor(ctx context.Context, id, color string) (editor.State, error)
	SetTitleFontSize(ctx context.Context, id string, size float64) (editor.State, error)
	SetTitleSpacing(ctx context.Context, id string, spacing float64) (editor.State, error)
	ToggleStyle(ctx context.Context, id string, token domain.StyleToken) (editor.State, error)
	SetFgScale(ctx context.Context, id string, scale float64) (editor.State, error)
	SetFgRotation(ctx context.Context, id string, degrees float64) (editor.State, error)
	Upload(ctx context.Context, id string, layer domain.Layer, r io.Reader) (editor.State, error)
	Pointer(ctx context.Context, id string, ev compositor.PointerEvent) (compositor.DragState, *editor.State, error)
	Preview(ctx context.Context, id string, width int) (image.Image, editor.State, error)
	Export(ctx context.Context, id string) (*export.Artifact, error)
}
