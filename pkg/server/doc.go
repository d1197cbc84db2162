// Package server hosts a domsync application: it renders the first page
// of each session and keeps it synchronized without reloads.
//
// # Architecture
//
//   - Server: chi routes for pages, the client runtime, the sync
//     WebSocket and Prometheus metrics
//   - Session: the tree one client shows, its data and its sync connection
//   - SessionManager: live sessions, limits and the idle sweep
//   - App: supplies each session's tree and handles its commands
//
// # Request Flow
//
// GET / creates a session from the request's User-Agent and renders the
// full page. Clients with scripting load the runtime, which opens the
// sync connection named in the page's meta tags. When an element event
// names a command the runtime sends a CommandFrame; the server runs
// App.Handle, diffs App.View against the tree the client shows and
// answers with a SyncFrame holding the update script.
//
// Clients without scripting get the page inside a form. Controls bound to
// commands submit it, and POST / dispatches the command and renders the
// page again.
//
// Commands of one session are handled one at a time; different sessions
// run in their own connection goroutines.
//
// # Example
//
//	app := server.AppFuncs{
//		ViewFunc: func(s *server.Session) *vdom.VNode {
//			return vdom.Div(vdom.Button(vdom.OnClick("inc"), "+"))
//		},
//		HandleFunc: func(ctx context.Context, s *server.Session, cmd server.Command) error {
//			return nil
//		},
//	}
//	srv := server.New(server.DefaultServerConfig(), app)
//	srv.Run(ctx)
package server
