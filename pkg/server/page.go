package server

import (
	"context"
	goerrors "errors"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/protocol"
	"github.com/vango-dev/domsync/pkg/render"
)

// handlePage starts a session and renders its first page. The query
// js=no requests the form-based page of a client without scripting.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	env := capability.FromUserAgent(r.UserAgent())
	if r.URL.Query().Get("js") == "no" {
		env.Scripting = false
	}
	if s.config.Lang != "" {
		env.Direction = capability.DirectionForLanguage(s.config.Lang)
	}
	sess, err := s.sessions.Create(env, s.renderer.NewView(env))
	if err != nil {
		s.logger.Warn("session rejected", "error", err)
		http.Error(w, "server busy", http.StatusServiceUnavailable)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writePage(r.Context(), w, sess)
}

// handleSubmit handles a form post from a client without scripting: it
// dispatches the command named by the pressed control and renders the
// page again.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sess *Session
	if c, err := r.Cookie(SessionCookieName); err == nil {
		sess = s.sessions.Get(c.Value)
	}
	if sess == nil {
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}
	sess.touch()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	cmd := commandFromForm(r.PostForm)
	if cmd.Name == "" {
		http.Error(w, "missing command", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	err := s.handle(r.Context(), sess, cmd)
	sess.mu.Unlock()
	s.metrics.command(err)
	if err != nil {
		code := errorCode(err)
		sess.logger.Warn("command failed", "command", cmd.Name, "code", code, "error", err)
		if code == "D041" {
			http.Error(w, "unknown command", http.StatusBadRequest)
			return
		}
	}
	s.writePage(r.Context(), w, sess)
}

// commandFromForm reads the command of a posted form. Wrapped controls
// post signal=<command>; buttons and image inputs carry the command in
// their name as "signal=<command>", image inputs with an .x or .y suffix.
func commandFromForm(form url.Values) Command {
	cmd := Command{}
	for key, vals := range form {
		value := ""
		if len(vals) > 0 {
			value = vals[0]
		}
		switch {
		case key == "signal":
			cmd.Name = value
		case strings.HasPrefix(key, "signal="):
			name := strings.TrimPrefix(key, "signal=")
			name = strings.TrimSuffix(name, ".x")
			name = strings.TrimSuffix(name, ".y")
			cmd.Name = name
		default:
			if cmd.Values == nil {
				cmd.Values = make(map[string]string)
			}
			cmd.Values[key] = value
		}
	}
	return cmd
}

func (s *Server) writePage(ctx context.Context, w http.ResponseWriter, sess *Session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	page := render.PageData{
		Body:          s.app.View(sess),
		Title:         s.config.Title,
		Lang:          s.config.Lang,
		RuntimeScript: s.config.RuntimeScript,
	}
	if sess.Env.ScriptingAvailable() {
		page.Meta = []render.MetaTag{
			{Name: "domsync-session", Content: sess.ID},
			{Name: "domsync-sync", Content: s.config.SyncPath},
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.RenderPage(ctx, w, sess.view, page); err != nil {
		sess.logger.Error("page render failed", "error", err)
	}
}

// handle runs the App for cmd, turning a panic into a HandlerError. The
// caller holds sess.mu.
func (s *Server) handle(ctx context.Context, sess *Session, cmd Command) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &HandlerError{SessionID: sess.ID, Command: cmd.Name, Panic: rec, Stack: debug.Stack()}
		}
	}()
	return s.app.Handle(ctx, sess, cmd)
}

// dispatch handles cmd and diffs the resulting tree against what the
// client shows. Passes of one session never overlap.
func (s *Server) dispatch(ctx context.Context, sess *Session, cmd Command) (*protocol.SyncFrame, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.handle(ctx, sess, cmd); err != nil {
		return nil, err
	}
	res, err := s.renderer.RenderUpdate(ctx, sess.view, s.app.View(sess))
	if err != nil {
		return nil, err
	}
	sess.seq++
	return protocol.NewSyncFrame(sess.seq, res), nil
}

// errorCode maps a dispatch failure to its error code.
func errorCode(err error) string {
	var coded *errors.Error
	switch {
	case goerrors.As(err, &coded):
		return coded.Code
	case goerrors.Is(err, ErrUnknownCommand):
		return "D041"
	case goerrors.Is(err, render.ErrNotRendered):
		return "D020"
	default:
		return "D042"
	}
}
