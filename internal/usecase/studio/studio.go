package studio

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
	"thumbnail-creator/internal/usecase/compositor"
	"thumbnail-creator/internal/usecase/controls"
	"thumbnail-creator/internal/usecase/export"

	"github.com/wb-go/wbf/zlog"
)

// Workspace is everything bound to one editing session: its state owner,
// the live preview and the drag gesture tracker.
type Workspace struct {
	Session *editor.Session
	Preview *compositor.Preview
	Dragger *compositor.Dragger
}

// Studio is the editor page: it owns the sessions and routes every edit to
// the session it belongs to.
type Studio struct {
	registry *editor.Registry
	renderer *compositor.Renderer
	controls *controls.Controls
	exporter *export.Exporter
	render   config.RenderConfig
	logger   *zlog.Zerolog

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewStudio(
	registry *editor.Registry,
	renderer *compositor.Renderer,
	ctrl *controls.Controls,
	exporter *export.Exporter,
	render config.RenderConfig,
	logger *zlog.Zerolog,
) *Studio {
	if render.PreviewWidth <= 0 {
		render.PreviewWidth = domain.DefaultPreviewWidth
	}
	s := &Studio{
		registry:   registry,
		renderer:   renderer,
		controls:   ctrl,
		exporter:   exporter,
		render:     render,
		logger:     logger,
		workspaces: make(map[string]*Workspace),
	}
	registry.OnClose(s.forget)
	return s
}

func (s *Studio) Create(ctx context.Context) (string, editor.State, error) {
	ws := s.attach(s.registry.Create())
	st, err := ws.Session.Snapshot(ctx)
	if err != nil {
		return "", editor.State{}, err
	}
	return ws.Session.ID(), st, nil
}

func (s *Studio) State(ctx context.Context, id string) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return ws.Session.Snapshot(ctx)
}

func (s *Studio) Close(id string) error {
	return s.registry.Close(id)
}

// Merge applies a partial update; fields absent from p keep their values.
func (s *Studio) Merge(ctx context.Context, id string, p domain.Patch) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return ws.Session.Dispatch(ctx, p)
}

func (s *Studio) SetTitle(ctx context.Context, id, title string) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetTitle(ctx, ws.Session, title)
}

func (s *Studio) SetTitleColor(ctx context.Context, id, color string) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetTitleColor(ctx, ws.Session, color)
}

func (s *Studio) SetTitleFontSize(ctx context.Context, id string, size float64) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetTitleFontSize(ctx, ws.Session, size)
}

func (s *Studio) SetTitleSpacing(ctx context.Context, id string, spacing float64) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetTitleSpacing(ctx, ws.Session, spacing)
}

func (s *Studio) ToggleStyle(ctx context.Context, id string, token domain.StyleToken) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.ToggleStyle(ctx, ws.Session, token)
}

func (s *Studio) SetFgScale(ctx context.Context, id string, scale float64) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetFgScale(ctx, ws.Session, scale)
}

func (s *Studio) SetFgRotation(ctx context.Context, id string, degrees float64) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.SetFgRotation(ctx, ws.Session, degrees)
}

func (s *Studio) Upload(ctx context.Context, id string, layer domain.Layer, r io.Reader) (editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return editor.State{}, err
	}
	return s.controls.Upload(ctx, ws.Session, layer, r)
}

// Pointer feeds one pointer sample to the session's drag gesture.
func (s *Studio) Pointer(ctx context.Context, id string, ev compositor.PointerEvent) (compositor.DragState, *editor.State, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return compositor.DragIdle, nil, err
	}
	return ws.Dragger.Handle(ctx, ev)
}

// Preview renders the session at width pixels, or at the configured preview
// width when width is zero.
func (s *Studio) Preview(ctx context.Context, id string, width int) (image.Image, editor.State, error) {
	if width < 0 || (s.render.MaxWidth > 0 && width > s.render.MaxWidth) {
		return nil, editor.State{}, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	ws, err := s.workspace(id)
	if err != nil {
		return nil, editor.State{}, err
	}
	return ws.Preview.Frame(ctx, width)
}

// Export returns the PNG download of the session's preview.
func (s *Studio) Export(ctx context.Context, id string) (*export.Artifact, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return nil, err
	}
	var target export.Capturer
	if ws.Preview != nil {
		target = ws.Preview
	}
	return s.exporter.Export(ctx, id, target)
}

func (s *Studio) attach(session *editor.Session) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachLocked(session)
}

func (s *Studio) attachLocked(session *editor.Session) *Workspace {
	ws := &Workspace{
		Session: session,
		Preview: compositor.NewPreview(session, s.renderer, s.render.PreviewWidth),
		Dragger: compositor.NewDragger(session),
	}
	if !session.Closed() {
		s.workspaces[session.ID()] = ws
	}
	return ws
}

func (s *Studio) workspace(id string) (*Workspace, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[id]; ok {
		return ws, nil
	}
	return s.attachLocked(session), nil
}

func (s *Studio) forget(id string) {
	s.mu.Lock()
	delete(s.workspaces, id)
	s.mu.Unlock()
	s.logger.Debug().Str("session_id", id).Msg("Workspace released")
}
