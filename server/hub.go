// Package server hosts sprint sessions for remote front ends over gRPC and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sprint/tetris"

	"github.com/google/uuid"
)

var ErrHubFull = errors.New("hub is full")

type Options struct {
	// MaxSessions caps the concurrent sessions.
	MaxSessions int
	// IdleTimeout is how long a session survives without player messages.
	IdleTimeout time.Duration
	Config      tetris.Config
	Clock       tetris.Clock
	Logger      *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxSessions: 100,
		IdleTimeout: 5 * time.Minute,
		Config:      tetris.DefaultConfig(),
		Clock:       tetris.SystemClock{},
		Logger:      slog.Default(),
	}
}

// Hub keeps track of the live sessions.
type Hub struct {
	sessions map[string]*Session
	opts     Options
	mu       sync.RWMutex
}

func NewHub(o Options) (*Hub, error) {
	if o.MaxSessions <= 0 {
		return nil, fmt.Errorf("max sessions must be positive, got %d", o.MaxSessions)
	}
	if err := o.Config.Validate(); err != nil {
		return nil, err
	}
	if o.Clock == nil {
		o.Clock = tetris.SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]*Session),
		opts:     o,
	}, nil
}

// Create starts a new idle session.
func (h *Hub) Create() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sessions) >= h.opts.MaxSessions {
		return nil, ErrHubFull
	}
	game, err := tetris.NewGame(h.opts.Config)
	if err != nil {
		return nil, fmt.Errorf("unable to create game: %w", err)
	}
	s := newSession(uuid.New().String(), game, h.opts)
	h.sessions[s.ID] = s
	game.Start()
	h.opts.Logger.Debug("session created", slog.String("session", s.ID), slog.Int("sessions", len(h.sessions)))
	return s, nil
}

func (h *Hub) Get(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Remove closes the session and forgets it.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		s.Close()
		h.opts.Logger.Debug("session removed", slog.String("session", id))
	}
}

// Maintain removes the idle sessions every interval until ctx is done.
func (h *Hub) Maintain(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CleanupExpired()
		}
	}
}

func (h *Hub) CleanupExpired() {
	now := h.opts.Clock.Now()
	h.mu.Lock()
	var expired []*Session
	for id, s := range h.sessions {
		if s.isExpired(now, h.opts.IdleTimeout) {
			expired = append(expired, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range expired {
		s.Close()
		h.opts.Logger.Info("session expired", slog.String("session", s.ID))
	}
}

// Stop closes every session.
func (h *Hub) Stop() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
