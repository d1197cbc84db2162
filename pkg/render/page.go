package render

import (
	"context"
	"io"
	"net/http"

	"github.com/vango-dev/domsync/pkg/escape"
	"github.com/vango-dev/domsync/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the tree rendered into the page body.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// Links contains link tags (favicon, preload, etc.).
	Links []LinkTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS.
	Styles []string

	// RuntimeScript is the URL of the client runtime. Pages for clients
	// without scripting never reference it.
	RuntimeScript string

	// Action is where pages for clients without scripting post their
	// form. Defaults to the current URL.
	Action string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string
	HTTPEquiv string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel  string
	Href string
	Type string
}

// pageWriter keeps the first write error.
type pageWriter struct {
	w   io.Writer
	err error
}

func (pw *pageWriter) write(parts ...string) {
	for _, s := range parts {
		if pw.err != nil {
			return
		}
		_, pw.err = io.WriteString(pw.w, s)
	}
}

func (pw *pageWriter) attr(name, value string) {
	if value == "" {
		return
	}
	pw.write(" ", name, `="`, escape.String(value, escape.HTMLAttribute), `"`)
}

func (pw *pageWriter) flush() {
	if f, ok := pw.w.(http.Flusher); ok && pw.err == nil {
		f.Flush()
	}
}

// RenderPage renders page.Body into view and writes the complete
// document. When w is an http.Flusher the head is flushed before the body
// is rendered.
//
// Clients with scripting get the runtime script and the deferred script.
// Clients without it get the body inside a form so that wrapped controls
// can post their commands; crawlers get plain markup.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, view *View, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	pw := &pageWriter{w: w}
	pw.write("<!DOCTYPE html>\n<html")
	pw.attr("lang", lang)
	if view.Env.IsRightToLeft() {
		pw.attr("dir", "rtl")
	}
	pw.write(">\n")
	r.renderHead(pw, page)
	pw.flush()
	if pw.err != nil {
		return pw.err
	}

	res, err := r.Render(ctx, view, page.Body)
	if err != nil {
		return err
	}

	pw.write("<body>\n")
	env := view.Env
	switch {
	case env.ScriptingAvailable():
		pw.write(res.Markup, "\n")
		if page.RuntimeScript != "" {
			pw.write("<script")
			pw.attr("src", page.RuntimeScript)
			pw.write("></script>\n")
		}
		if script := r.Deferred(res); script != "" {
			pw.write("<script>\n", script, "</script>\n")
		}
	case env.IsCrawler():
		pw.write(res.Markup, "\n")
	default:
		pw.write(`<form method="post"`)
		pw.attr("action", page.Action)
		pw.write(">\n", res.Markup, "\n</form>\n")
	}
	pw.write("</body>\n</html>\n")
	return pw.err
}

// renderHead writes the document head section.
func (r *Renderer) renderHead(pw *pageWriter, page PageData) {
	pw.write("<head>\n")
	pw.write(`  <meta charset="utf-8">`+"\n")
	pw.write(`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n")
	if page.Title != "" {
		pw.write("  <title>", escape.String(page.Title, escape.PlainText), "</title>\n")
	}
	for _, meta := range page.Meta {
		pw.write("  <meta")
		pw.attr("name", meta.Name)
		pw.attr("property", meta.Property)
		pw.attr("http-equiv", meta.HTTPEquiv)
		pw.attr("content", meta.Content)
		pw.write(">\n")
	}
	for _, link := range page.Links {
		pw.write("  <link")
		pw.attr("rel", link.Rel)
		pw.attr("href", link.Href)
		pw.attr("type", link.Type)
		pw.write(">\n")
	}
	for _, href := range page.StyleSheets {
		pw.write(`  <link rel="stylesheet"`)
		pw.attr("href", href)
		pw.write(">\n")
	}
	for _, style := range page.Styles {
		pw.write("  <style>", style, "</style>\n")
	}
	pw.write("</head>\n")
}
