package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/protocol"
	"github.com/vango-dev/domsync/pkg/render"
)

// Session is the state of one client: the tree it shows and the sync
// connection it listens on.
type Session struct {
	// ID is the random session identifier.
	ID string

	// Env describes the client.
	Env capability.Env

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// mu serializes passes over view. It is held while the App handles a
	// command and while the resulting tree is diffed.
	mu   sync.Mutex
	view *render.View
	seq  uint64

	lastActive atomic.Int64

	data   map[string]any
	dataMu sync.RWMutex

	// connMu guards conn and serializes frame writes.
	connMu sync.Mutex
	conn   *websocket.Conn
	closed atomic.Bool

	config *SessionConfig
	logger *slog.Logger
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

func newSession(env capability.Env, view *render.View, config *SessionConfig, logger *slog.Logger) *Session {
	id := generateSessionID()
	s := &Session{
		ID:        id,
		Env:       env,
		CreatedAt: time.Now(),
		view:      view,
		data:      make(map[string]any),
		config:    config,
		logger:    logger.With("session_id", id),
	}
	s.touch()
	return s
}

// Get returns the value stored under key, or nil.
func (s *Session) Get(key string) any {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data[key]
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data[key] = value
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	delete(s.data, key)
}

// LastActive returns the time of the last request or frame.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Seq returns the sequence number of the last sync frame.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// IsClosed reports whether the session was closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// attach makes conn the session's sync connection, closing the one it
// replaces.
func (s *Session) attach(conn *websocket.Conn) {
	s.connMu.Lock()
	old := s.conn
	s.conn = conn
	s.connMu.Unlock()
	if old != nil {
		old.Close()
		s.logger.Info("sync connection replaced")
	}
}

// detach drops conn if it is still the session's connection.
func (s *Session) detach(conn *websocket.Conn) {
	s.connMu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.connMu.Unlock()
	conn.Close()
}

// Connected reports whether a sync connection is attached.
func (s *Session) Connected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn != nil
}

// send writes one message to the sync connection and returns the number
// of bytes written.
func (s *Session) send(m protocol.Message) (int, error) {
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	data := protocol.Marshal(m)

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return 0, ErrNoConnection
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return 0, &SessionError{SessionID: s.ID, Op: "write", Err: err}
	}
	return len(data), nil
}

// Close closes the session and its sync connection.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	s.logger.Debug("session closed")
}
