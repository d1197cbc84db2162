package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/domsync/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		client clientFlags
		page   bool
		title  string
	)

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Print the markup of a tree",
		Long: `Render a tree file and print its markup, followed by the script
that must run once the markup is in place.

Examples:
  domsync render page.yaml
  domsync render page.yaml --page --title=Home
  domsync render page.json --runtime=legacy-ie
  domsync render page.json --no-script`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			if client.lang == "" {
				client.lang = cfg.Server.Lang
			}
			env, err := client.env()
			if err != nil {
				return err
			}

			r := newRenderer(cfg, nil)
			view := r.NewView(env)
			ctx := context.Background()
			if page {
				if title == "" {
					title = cfg.Server.Title
				}
				return r.RenderPage(ctx, os.Stdout, view, render.PageData{
					Body:          tree,
					Title:         title,
					Lang:          client.lang,
					RuntimeScript: cfg.Server.RuntimeScript,
				})
			}

			res, err := r.Render(ctx, view, tree)
			if err != nil {
				return err
			}
			fmt.Println(res.Markup)
			if script := r.Deferred(res); script != "" {
				fmt.Print(script)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&client.runtime, "runtime", "", "Client runtime: standard, legacy-ie or khtml")
	cmd.Flags().BoolVar(&client.noScript, "no-script", false, "Render for a client without scripting")
	cmd.Flags().BoolVar(&client.crawler, "crawler", false, "Render for an indexing crawler")
	cmd.Flags().StringVar(&client.lang, "lang", "", "Page language (default from domsync.json)")
	cmd.Flags().BoolVar(&page, "page", false, "Print a complete document")
	cmd.Flags().StringVar(&title, "title", "", "Page title (default from domsync.json)")

	return cmd
}
