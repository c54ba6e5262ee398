package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"time"

	"thumbnail-creator/internal/domain"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Artifact is an encoded export ready to be offered as a download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
	URL         string
}

type Option func(*Exporter)

// WithStore keeps a copy of every export in object storage.
func WithStore(store artifactStore) Option {
	return func(e *Exporter) { e.store = store }
}

// WithProducer announces every export as an event.
func WithProducer(producer eventProducer) Option {
	return func(e *Exporter) { e.producer = producer }
}

type Exporter struct {
	store    artifactStore
	producer eventProducer
	encoder  png.Encoder
	retries  retry.Strategy
	now      func() time.Time
	logger   *zlog.Zerolog
}

func NewExporter(logger *zlog.Zerolog, retries retry.Strategy, opts ...Option) *Exporter {
	e := &Exporter{
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
		retries: retries,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export rasterizes target as PNG. Without a target there is nothing to
// export and both results are nil. Storage and event delivery are best
// effort: their failures are logged and the artifact is still returned.
func (e *Exporter) Export(ctx context.Context, sessionID string, target Capturer) (*Artifact, error) {
	if target == nil {
		e.logger.Debug().Str("session_id", sessionID).Msg("Nothing to export")
		return nil, nil
	}

	img, err := target.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	var buf bytes.Buffer
	if err := e.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	b := img.Bounds()
	artifact := &Artifact{
		Filename:    domain.ExportFilename,
		ContentType: domain.ExportContentType,
		Data:        buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}
	at := e.now()

	if e.store != nil {
		key := domain.ExportObjectKey(sessionID, at)
		url, err := e.store.Save(ctx, key, artifact.Data, artifact.ContentType)
		if err != nil {
			e.logger.Error().Err(err).Str("session_id", sessionID).Str("key", key).Msg("Failed to store export")
		} else {
			artifact.URL = url
		}
	}

	if e.producer != nil {
		e.publish(ctx, sessionID, artifact, at)
	}

	e.logger.Info().
		Str("session_id", sessionID).
		Int("width", artifact.Width).
		Int("height", artifact.Height).
		Int("size", len(artifact.Data)).
		Msg("Thumbnail exported")
	return artifact, nil
}

func (e *Exporter) publish(ctx context.Context, sessionID string, a *Artifact, at time.Time) {
	event := domain.ExportEvent{
		SessionID:  sessionID,
		Filename:   a.Filename,
		Width:      a.Width,
		Height:     a.Height,
		Size:       len(a.Data),
		URL:        a.URL,
		ExportedAt: at.UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		e.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to marshal export event")
		return
	}
	if err := e.producer.Send(ctx, e.retries, []byte(sessionID), value); err != nil {
		e.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to publish export event")
	}
}
