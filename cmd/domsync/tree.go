package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vango-dev/domsync/internal/config"
	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/render"
	"github.com/vango-dev/domsync/pkg/vdom"
)

func isTreeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// loadTree reads a tree file, reporting failures as coded errors.
func loadTree(path string) (*vdom.VNode, error) {
	if !isTreeFile(path) {
		return nil, errors.New("D080").WithDetail(fmt.Sprintf("%s has extension %q", path, filepath.Ext(path)))
	}
	tree, err := vdom.ParseFile(path)
	if err != nil {
		return nil, errors.New("D021").Wrap(err).WithDetail("Cannot read " + path)
	}
	return tree, nil
}

// clientFlags select the client a command renders for.
type clientFlags struct {
	runtime  string
	noScript bool
	crawler  bool
	lang     string
}

func (f *clientFlags) env() (capability.Env, error) {
	env := capability.Standard()
	if f.runtime != "" {
		rt, ok := capability.ParseRuntime(f.runtime)
		if !ok {
			return env, errors.New("D003").
				WithDetail(fmt.Sprintf("unknown runtime %q", f.runtime)).
				WithSuggestion(`Use "standard", "legacy-ie" or "khtml"`)
		}
		env.Runtime = rt
		if rt == capability.RuntimeLegacyIE {
			env.Quirks |= capability.QuirkKeyPressAsKeyDown
		}
	}
	if f.noScript {
		env.Scripting = false
	}
	if f.crawler {
		env.Scripting = false
		env.Crawler = true
	}
	if f.lang != "" {
		env.Direction = capability.DirectionForLanguage(f.lang)
	}
	return env, nil
}

// loadConfig loads domsync.json and checks it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRenderer builds a renderer from cfg.
func newRenderer(cfg *config.Config, metrics *render.Metrics) *render.Renderer {
	return render.NewRenderer(render.Config{
		Namespace:   cfg.Render.Namespace,
		RootID:      cfg.Render.RootID,
		IDPrefix:    cfg.Render.IDPrefix,
		BulkReplace: cfg.BulkReplaceTable(),
		Metrics:     metrics,
	})
}
