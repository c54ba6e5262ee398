package kafka

import (
	"context"
	"testing"
	"time"

	"thumbnail-creator/internal/config"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

func TestSendStopsRetryingWhenContextEnds(t *testing.T) {
	t.Parallel()

	p := NewProducerClient(&config.KafkaConfig{
		Brokers:     []string{"127.0.0.1:1"},
		ExportTopic: "thumbnail-exported",
	})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Send(ctx, retry.Strategy{Attempts: 5, Delay: time.Minute, Backoff: 2}, []byte("id"), []byte("{}"))
	require.Error(t, err)
	require.ErrorContains(t, err, "thumbnail-exported")
	require.Less(t, time.Since(start), 30*time.Second)
}
