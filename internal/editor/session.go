package editor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"thumbnail-creator/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// State is a committed snapshot. Version grows by one per applied merge.
type State struct {
	Data    domain.ThumbnailData
	Version uint64
}

// UploadTicket identifies one upload to a layer. Only the most recently
// issued ticket of a layer may complete.
type UploadTicket struct {
	Layer domain.Layer
	ID    uint64
}

type sessionState struct {
	data    domain.ThumbnailData
	version uint64
	uploads map[domain.Layer]uint64
}

type command func(st *sessionState)

// Session owns one ThumbnailData. A single goroutine holds the record and
// applies every mutation sent through its mailbox, in arrival order.
type Session struct {
	id        string
	createdAt time.Time
	lastSeen  atomic.Int64
	mailbox   chan command
	done      chan struct{}
	closeOnce sync.Once
	logger    *zlog.Zerolog
}

func newSession(id string, initial domain.ThumbnailData, mailboxSize int, now time.Time, logger *zlog.Zerolog) *Session {
	s := &Session{
		id:        id,
		createdAt: now,
		mailbox:   make(chan command, mailboxSize),
		done:      make(chan struct{}),
		logger:    logger,
	}
	s.lastSeen.Store(now.UnixNano())
	go s.run(initial)
	return s
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) run(initial domain.ThumbnailData) {
	st := &sessionState{
		data:    initial,
		uploads: make(map[domain.Layer]uint64),
	}
	for {
		select {
		case cmd := <-s.mailbox:
			cmd(st)
		case <-s.done:
			return
		}
	}
}

func call[T any](ctx context.Context, s *Session, fn func(st *sessionState) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	var zero T
	reply := make(chan result, 1)
	cmd := func(st *sessionState) {
		value, err := fn(st)
		reply <- result{value: value, err: err}
	}

	select {
	case <-s.done:
		return zero, ErrSessionClosed
	default:
	}

	select {
	case s.mailbox <- cmd:
	case <-s.done:
		return zero, ErrSessionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	// Once queued the command will run, so its outcome is reported even if
	// ctx ends meanwhile.
	select {
	case res := <-reply:
		s.lastSeen.Store(time.Now().UnixNano())
		return res.value, res.err
	case <-s.done:
		return zero, ErrSessionClosed
	}
}

func (st *sessionState) snapshot() State {
	return State{Data: st.data, Version: st.version}
}

// Dispatch merges p into the session state and returns the new snapshot.
func (s *Session) Dispatch(ctx context.Context, p domain.Patch) (State, error) {
	state, err := call(ctx, s, func(st *sessionState) (State, error) {
		if !p.IsEmpty() {
			st.data = st.data.Merge(p)
			st.version++
		}
		return st.snapshot(), nil
	})
	if err == nil {
		s.logger.Debug().
			Str("session_id", s.id).
			Strs("fields", p.Fields()).
			Uint64("version", state.Version).
			Msg("State merged")
	}
	return state, err
}

// Update builds a patch from the current data inside the owner goroutine
// and merges it, so read-modify-write edits cannot interleave.
func (s *Session) Update(ctx context.Context, fn func(d domain.ThumbnailData) domain.Patch) (State, error) {
	var fields []string
	state, err := call(ctx, s, func(st *sessionState) (State, error) {
		p := fn(st.data)
		if !p.IsEmpty() {
			st.data = st.data.Merge(p)
			st.version++
		}
		fields = p.Fields()
		return st.snapshot(), nil
	})
	if err == nil {
		s.logger.Debug().
			Str("session_id", s.id).
			Strs("fields", fields).
			Uint64("version", state.Version).
			Msg("State updated")
	}
	return state, err
}

func (s *Session) Snapshot(ctx context.Context) (State, error) {
	return call(ctx, s, func(st *sessionState) (State, error) {
		return st.snapshot(), nil
	})
}

// BeginUpload issues a ticket for a new upload to layer, superseding any
// upload to the same layer still in flight.
func (s *Session) BeginUpload(ctx context.Context, layer domain.Layer) (UploadTicket, error) {
	return call(ctx, s, func(st *sessionState) (UploadTicket, error) {
		st.uploads[layer]++
		return UploadTicket{Layer: layer, ID: st.uploads[layer]}, nil
	})
}

// CompleteUpload stores ref in the ticket's layer unless a newer upload to
// that layer has begun since, in which case ErrStaleUpload is returned and
// the state is unchanged.
func (s *Session) CompleteUpload(ctx context.Context, ticket UploadTicket, ref domain.ImageRef) (State, error) {
	state, err := call(ctx, s, func(st *sessionState) (State, error) {
		if st.uploads[ticket.Layer] != ticket.ID {
			return st.snapshot(), ErrStaleUpload
		}
		st.data = st.data.Merge(domain.ImagePatch(ticket.Layer, ref))
		st.version++
		return st.snapshot(), nil
	})
	if errors.Is(err, ErrStaleUpload) {
		s.logger.Info().
			Str("session_id", s.id).
			Str("layer", string(ticket.Layer)).
			Uint64("ticket", ticket.ID).
			Msg("Discarded stale upload")
	}
	return state, err
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
