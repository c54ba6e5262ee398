package compositor

import (
	"context"
	"fmt"
	"sync"

	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

type PointerType string

const (
	PointerDown  PointerType = "down"
	PointerMove  PointerType = "move"
	PointerUp    PointerType = "up"
	PointerLeave PointerType = "leave"
)

// PointerEvent is one pointer sample in client coordinates, together with
// the container's on-screen box at that moment.
type PointerEvent struct {
	Type      PointerType
	X         float64
	Y         float64
	Container Rect
}

// Dragger repositions the foreground layer with a single pointer.
type Dragger struct {
	mu      sync.Mutex
	state   DragState
	session session
}

func NewDragger(s session) *Dragger {
	return &Dragger{session: s}
}

func (d *Dragger) State() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Handle advances the state machine. It returns the resulting drag state and,
// when the event moved the foreground, the committed session state.
func (d *Dragger) Handle(ctx context.Context, ev PointerEvent) (DragState, *editor.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Type {
	case PointerDown:
		if d.state == DragDragging {
			return d.state, nil, nil
		}
		snap, err := d.session.Snapshot(ctx)
		if err != nil {
			return d.state, nil, err
		}
		l := LayoutOf(ev.Container)
		if l.ForegroundContains(snap.Data, ev.X-ev.Container.Left, ev.Y-ev.Container.Top) {
			d.state = DragDragging
		}
		return d.state, nil, nil

	case PointerMove:
		if d.state != DragDragging {
			return d.state, nil, nil
		}
		pos, ok := PositionFromPointer(ev.Container, ev.X, ev.Y)
		if !ok {
			return d.state, nil, nil
		}
		st, err := d.session.Dispatch(ctx, domain.FgPositionPatch(pos.X, pos.Y))
		if err != nil {
			return d.state, nil, err
		}
		return d.state, &st, nil

	case PointerUp, PointerLeave:
		d.state = DragIdle
		return d.state, nil, nil

	default:
		return d.state, nil, fmt.Errorf("unknown pointer event %q", ev.Type)
	}
}
