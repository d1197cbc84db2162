package snapshot

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/render"
	"github.com/vango-dev/domsync/pkg/vdom"
	"golang.org/x/sync/errgroup"
)

// Page is a tree to publish at a URL path.
type Page struct {
	Path  string
	Title string
	Tree  *vdom.VNode
}

// Publisher renders pages for crawlers and writes them to a Store.
type Publisher struct {
	Renderer *render.Renderer
	Store    Store

	// Lang is the page language; right-to-left languages mirror layout.
	Lang string

	// Concurrency bounds the pages rendered and written at once.
	// Zero or less means one at a time.
	Concurrency int

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// crawlerEnv is the client every snapshot is rendered for.
func (p *Publisher) crawlerEnv() capability.Env {
	env := capability.Standard()
	env.Scripting = false
	env.Crawler = true
	if p.Lang != "" {
		env.Direction = capability.DirectionForLanguage(p.Lang)
	}
	return env
}

// Render renders one page to a snapshot without storing it.
func (p *Publisher) Render(ctx context.Context, page Page) (*Snapshot, error) {
	env := p.crawlerEnv()
	var buf bytes.Buffer
	err := p.Renderer.RenderPage(ctx, &buf, p.Renderer.NewView(env), render.PageData{
		Body:  page.Tree,
		Title: page.Title,
		Lang:  p.Lang,
	})
	if err != nil {
		return nil, err
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return &Snapshot{
		Path:        CleanPath(page.Path),
		HTML:        buf.Bytes(),
		ContentType: DefaultContentType,
		CreatedAt:   now().UTC(),
	}, nil
}

// Publish renders page and stores it.
func (p *Publisher) Publish(ctx context.Context, page Page) error {
	snap, err := p.Render(ctx, page)
	if err != nil {
		return errors.New("D061").Wrap(err).WithDetail("Rendering " + page.Path + " failed")
	}
	if err := p.Store.Put(ctx, snap); err != nil {
		return errors.New("D061").Wrap(err).WithDetail("Writing " + page.Path + " failed")
	}
	return nil
}

// PublishAll publishes pages concurrently. The first failure cancels the
// pages not yet started and is returned.
func (p *Publisher) PublishAll(ctx context.Context, pages []Page) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "snapshot")

	limit := p.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := p.Publish(ctx, page); err != nil {
				logger.Error("publish failed", "path", page.Path, "error", err)
				return err
			}
			logger.Debug("published", "path", page.Path, "duration", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("snapshots published", "pages", len(pages))
	return nil
}
