package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/render"
)

// SessionManager tracks the live sessions of a server and closes the
// idle ones.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	config      *SessionConfig
	maxSessions int
	metrics     *Metrics
	logger      *slog.Logger

	cleanupInterval time.Duration
	done            chan struct{}
	cleanupDone     chan struct{}
	shutdownOnce    sync.Once

	onSessionClose func(*Session)
}

// NewSessionManager creates a manager and starts its cleanup loop.
// A cleanupInterval of zero disables the loop.
func NewSessionManager(config *SessionConfig, maxSessions int, cleanupInterval time.Duration, metrics *Metrics, logger *slog.Logger) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	sm := &SessionManager{
		sessions:        make(map[string]*Session),
		config:          config,
		maxSessions:     maxSessions,
		metrics:         metrics,
		logger:          logger,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go sm.cleanupLoop()
	} else {
		close(sm.cleanupDone)
	}
	return sm
}

// Create registers a new session for a client.
func (sm *SessionManager) Create(env capability.Env, view *render.View) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, ErrMaxSessionsReached
	}
	s := newSession(env, view, sm.config, sm.logger)
	sm.sessions[s.ID] = s
	sm.metrics.sessionOpened()
	s.logger.Debug("session created", "runtime", env.Runtime.String(), "scripting", env.Scripting)
	return s, nil
}

// Get returns the session with the given ID, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close removes and closes a session.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	s := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if s != nil {
		sm.closeSession(s)
	}
}

func (sm *SessionManager) closeSession(s *Session) {
	s.Close()
	sm.metrics.sessionClosed()
	if sm.onSessionClose != nil {
		sm.onSessionClose(s)
	}
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// SetOnSessionClose sets a callback run after a session is closed.
func (sm *SessionManager) SetOnSessionClose(fn func(*Session)) {
	sm.onSessionClose = fn
}

func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)
	ticker := time.NewTicker(sm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sm.CleanupExpired(now)
		case <-sm.done:
			return
		}
	}
}

// CleanupExpired closes the sessions idle for longer than the idle
// timeout as of now and returns how many it closed.
func (sm *SessionManager) CleanupExpired(now time.Time) int {
	sm.mu.Lock()
	var expired []*Session
	for id, s := range sm.sessions {
		if now.Sub(s.LastActive()) > sm.config.IdleTimeout {
			expired = append(expired, s)
			delete(sm.sessions, id)
		}
	}
	sm.mu.Unlock()

	for _, s := range expired {
		sm.closeSession(s)
	}
	if len(expired) > 0 {
		sm.logger.Info("closed idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Shutdown stops the cleanup loop and closes every session.
func (sm *SessionManager) Shutdown() {
	sm.shutdownOnce.Do(func() {
		close(sm.done)
		<-sm.cleanupDone

		sm.mu.Lock()
		sessions := sm.sessions
		sm.sessions = make(map[string]*Session)
		sm.mu.Unlock()

		for _, s := range sessions {
			sm.closeSession(s)
		}
	})
}
