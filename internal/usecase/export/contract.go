package export

import (
	"context"
	"image"

	"github.com/wb-go/wbf/retry"
)

// Capturer is anything that can produce the current preview raster.
type Capturer interface {
	Capture(ctx context.Context) (image.Image, error)
}

type artifactStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type eventProducer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
}
