package compositor

import (
	"context"
	"image"
	"sync"

	"thumbnail-creator/internal/editor"
)

// Preview is the live rendering of one session. Frames are re-rendered only
// when the session state or the requested width changes.
type Preview struct {
	session  session
	renderer *Renderer
	width    int

	mu      sync.Mutex
	frame   *image.RGBA
	version uint64
	fwidth  int
}

func NewPreview(s session, renderer *Renderer, width int) *Preview {
	return &Preview{
		session:  s,
		renderer: renderer,
		width:    width,
	}
}

func (p *Preview) Width() int { return p.width }

// Frame returns the rendering of the current state at width, or at the
// preview's own width when width is zero.
func (p *Preview) Frame(ctx context.Context, width int) (image.Image, editor.State, error) {
	if width <= 0 {
		width = p.width
	}
	st, err := p.session.Snapshot(ctx)
	if err != nil {
		return nil, editor.State{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frame != nil && p.version == st.Version && p.fwidth == width {
		return p.frame, st, nil
	}

	frame, err := p.renderer.Render(ctx, st.Data, width)
	if err != nil {
		return nil, editor.State{}, err
	}
	p.frame, p.version, p.fwidth = frame, st.Version, width
	return frame, st, nil
}

// Capture samples the preview as it is now, at its own width.
func (p *Preview) Capture(ctx context.Context) (image.Image, error) {
	img, _, err := p.Frame(ctx, 0)
	return img, err
}
