// Package render runs the passes that keep a client in sync with a
// server-held tree.
//
// A View is one client's copy of the tree. Render (or RenderPage, which
// wraps the result in a complete HTML document) lowers a tree to markup
// and makes it the view's tree. RenderUpdate diffs a new tree against the
// view and returns the script that patches the client:
//
//	r := render.NewRenderer(render.Config{Metrics: render.NewMetrics()})
//	view := r.NewView(capability.FromUserAgent(req.UserAgent()))
//	err := r.RenderPage(ctx, w, view, render.PageData{Title: "Inbox", Body: inbox(state)})
//
//	// later, after state changed
//	res, err := r.RenderUpdate(ctx, view, inbox(state))
//	send(res.Script, res.Timers)
//
// Every pass is traced with OpenTelemetry and, when Config.Metrics is
// set, counted in Prometheus. A pass that panics returns a D020 error and
// leaves the view unchanged.
package render
