package broker

import (
	"context"

	"github.com/wb-go/wbf/retry"
)

// Producer publishes keyed messages to the export events topic.
type Producer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}
