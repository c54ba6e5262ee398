package controls

import (
	"context"

	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
)

type session interface {
	Dispatch(ctx context.Context, p domain.Patch) (editor.State, error)
	Update(ctx context.Context, fn func(d domain.ThumbnailData) domain.Patch) (editor.State, error)
	BeginUpload(ctx context.Context, layer domain.Layer) (editor.UploadTicket, error)
	CompleteUpload(ctx context.Context, ticket editor.UploadTicket, ref domain.ImageRef) (editor.State, error)
}
