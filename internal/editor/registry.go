package editor

import (
	"context"
	"sync"
	"time"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// Registry holds the live editing sessions. A session lives until it is
// closed explicitly or stays idle longer than the configured TTL.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	idleTTL     time.Duration
	mailboxSize int
	now         func() time.Time
	onClose     []func(id string)
	logger      *zlog.Zerolog
}

func NewRegistry(cfg config.SessionConfig, logger *zlog.Zerolog) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTTL:     cfg.IdleTTL,
		mailboxSize: cfg.MailboxSize,
		now:         time.Now,
		logger:      logger,
	}
}

// OnClose registers fn to run after a session is closed, whether explicitly,
// by expiry or on shutdown.
func (r *Registry) OnClose(fn func(id string)) {
	r.mu.Lock()
	r.onClose = append(r.onClose, fn)
	r.mu.Unlock()
}

func (r *Registry) closed(s *Session) {
	s.Close()
	r.mu.RLock()
	hooks := r.onClose
	r.mu.RUnlock()
	for _, fn := range hooks {
		fn(s.ID())
	}
}

func (r *Registry) Create() *Session {
	id := uuid.New().String()
	s := newSession(id, domain.DefaultThumbnail(), r.mailboxSize, r.now(), r.logger)

	r.mu.Lock()
	r.sessions[id] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info().Str("session_id", id).Int("sessions", count).Msg("Session created")
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.Closed() {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	r.closed(s)
	r.logger.Info().Str("session_id", id).Msg("Session closed")
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and reports how many
// were removed. A non-positive TTL disables expiry.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.closed(s)
		r.logger.Info().
			Str("session_id", s.ID()).
			Time("last_seen", s.LastSeen()).
			Msg("Session expired")
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug().Int("expired", n).Int("sessions", r.Len()).Msg("Swept idle sessions")
			}
		}
	}
}

func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		r.closed(s)
	}
	r.logger.Info().Int("sessions", len(sessions)).Msg("Session registry stopped")
}
