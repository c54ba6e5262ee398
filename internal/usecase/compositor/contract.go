package compositor

import (
	"context"

	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
)

type session interface {
	Dispatch(ctx context.Context, p domain.Patch) (editor.State, error)
	Snapshot(ctx context.Context) (editor.State, error)
}
