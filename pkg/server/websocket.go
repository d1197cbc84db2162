package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/domsync/pkg/protocol"
)

// HandleWebSocket upgrades the sync connection of the session named by
// the "session" query parameter and serves its commands until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(r.URL.Query().Get("session"))
	if sess == nil || sess.IsClosed() {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	sess.attach(conn)
	sess.touch()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.heartbeat(ctx, sess, conn)
	s.readLoop(ctx, sess, conn)
}

// readLoop reads command frames until the connection fails.
func (s *Server) readLoop(ctx context.Context, sess *Session, conn *websocket.Conn) {
	defer sess.detach(conn)

	cfg := s.config.SessionConfig
	conn.SetReadLimit(cfg.MaxMessageSize)
	conn.SetPongHandler(func(string) error {
		sess.touch()
		return conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			return
		}
		sess.touch()
		if kind != websocket.BinaryMessage {
			continue
		}

		m, err := protocol.Unmarshal(msg)
		if err != nil {
			sess.logger.Warn("frame decode error", "error", err)
			s.sendError(sess, protocol.NewError("D040", err.Error()))
			continue
		}
		frame, ok := m.(*protocol.CommandFrame)
		if !ok {
			s.sendError(sess, protocol.NewError("D040", "unexpected "+m.FrameType().String()+" frame"))
			continue
		}
		s.handleCommand(ctx, sess, frame)
	}
}

func (s *Server) handleCommand(ctx context.Context, sess *Session, frame *protocol.CommandFrame) {
	cmd := Command{Name: frame.Command, Target: frame.Target, Values: frame.Values}
	update, err := s.dispatch(ctx, sess, cmd)
	s.metrics.command(err)
	if err != nil {
		code := errorCode(err)
		sess.logger.Warn("command failed", "command", cmd.Name, "code", code, "error", err)
		s.sendError(sess, protocol.NewError(code, err.Error()))
		return
	}
	n, err := sess.send(update)
	if err != nil {
		sess.logger.Error("sync write failed", "seq", update.Seq, "error", err)
		return
	}
	s.metrics.syncSent(n)
}

func (s *Server) sendError(sess *Session, frame *protocol.ErrorFrame) {
	if _, err := sess.send(frame); err != nil {
		sess.logger.Error("error frame write failed", "error", err)
	}
}

// heartbeat pings the client until ctx is done. WriteControl may run
// concurrently with the frame writes of send.
func (s *Server) heartbeat(ctx context.Context, sess *Session, conn *websocket.Conn) {
	cfg := s.config.SessionConfig
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				sess.logger.Debug("ping failed", "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
