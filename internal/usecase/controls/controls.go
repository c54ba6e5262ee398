package controls

import (
	"context"
	"fmt"
	"io"
	"strings"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"

	"github.com/gabriel-vasile/mimetype"
	"github.com/wb-go/wbf/zlog"
)

// Controls turns individual field edits into single partial updates. Values
// are passed through as given; the declared ranges are not enforced.
type Controls struct {
	maxUpload int64
	logger    *zlog.Zerolog
}

func NewControls(cfg config.UploadConfig, logger *zlog.Zerolog) *Controls {
	maxUpload := cfg.MaxBytes
	if maxUpload == 0 {
		maxUpload = domain.DefaultMaxUploadSize
	}
	return &Controls{
		maxUpload: maxUpload,
		logger:    logger,
	}
}

func (c *Controls) SetTitle(ctx context.Context, s session, title string) (editor.State, error) {
	return s.Dispatch(ctx, domain.TitlePatch(title))
}

func (c *Controls) SetTitleColor(ctx context.Context, s session, color string) (editor.State, error) {
	return s.Dispatch(ctx, domain.TitleColorPatch(color))
}

func (c *Controls) SetTitleFontSize(ctx context.Context, s session, size float64) (editor.State, error) {
	return s.Dispatch(ctx, domain.TitleFontSizePatch(size))
}

func (c *Controls) SetTitleSpacing(ctx context.Context, s session, spacing float64) (editor.State, error) {
	return s.Dispatch(ctx, domain.TitleSpacingPatch(spacing))
}

func (c *Controls) SetFgScale(ctx context.Context, s session, scale float64) (editor.State, error) {
	return s.Dispatch(ctx, domain.FgScalePatch(scale))
}

func (c *Controls) SetFgRotation(ctx context.Context, s session, degrees float64) (editor.State, error) {
	return s.Dispatch(ctx, domain.FgRotationPatch(degrees))
}

// ToggleStyle adds token to the title style set if absent and removes it
// otherwise.
func (c *Controls) ToggleStyle(ctx context.Context, s session, token domain.StyleToken) (editor.State, error) {
	if !token.Valid() {
		return editor.State{}, fmt.Errorf("%w: %d", domain.ErrUnknownStyleToken, token)
	}
	return s.Update(ctx, func(d domain.ThumbnailData) domain.Patch {
		return domain.TitleFontStylePatch(d.TitleFontStyle.Toggle(token))
	})
}

// Upload replaces the image of layer with the contents of r, embedded as a
// data URI. The upload is ticketed before reading starts, so when two
// uploads to the same layer overlap only the later selection is applied and
// the other one returns editor.ErrStaleUpload.
func (c *Controls) Upload(ctx context.Context, s session, layer domain.Layer, r io.Reader) (editor.State, error) {
	ticket, err := s.BeginUpload(ctx, layer)
	if err != nil {
		return editor.State{}, err
	}

	data, err := c.read(r)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("layer", string(layer)).
			Uint64("ticket", ticket.ID).
			Msg("Failed to read uploaded image")
		return editor.State{}, err
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return editor.State{}, fmt.Errorf("%w: %s", ErrInvalidFileFormat, mtype.String())
	}

	st, err := s.CompleteUpload(ctx, ticket, domain.DataImage(domain.EncodeDataURI(mtype.String(), data)))
	if err != nil {
		return st, err
	}

	c.logger.Info().
		Str("layer", string(layer)).
		Str("mime_type", mtype.String()).
		Int("size", len(data)).
		Uint64("version", st.Version).
		Msg("Image uploaded")
	return st, nil
}

// read loads the whole file. A negative limit disables the size check.
func (c *Controls) read(r io.Reader) ([]byte, error) {
	if c.maxUpload > 0 {
		r = io.LimitReader(r, c.maxUpload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if c.maxUpload > 0 && int64(len(data)) > c.maxUpload {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
