package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func diffCmd() *cobra.Command {
	var (
		client clientFlags
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the script that turns one tree into another",
		Long: `Render the old tree, then print the update script that brings a
client showing it up to date with the new tree.

Elements keep their place by id: give elements ids in both files to see
updates instead of replacements.

Examples:
  domsync diff before.yaml after.yaml
  domsync diff before.json after.json --runtime=khtml --stats`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			prev, err := loadTree(args[0])
			if err != nil {
				return err
			}
			next, err := loadTree(args[1])
			if err != nil {
				return err
			}
			env, err := client.env()
			if err != nil {
				return err
			}

			r := newRenderer(cfg, nil)
			view := r.NewView(env)
			ctx := context.Background()
			if _, err := r.Render(ctx, view, prev); err != nil {
				return err
			}
			res, err := r.RenderUpdate(ctx, view, next)
			if err != nil {
				return err
			}
			fmt.Print(r.Deferred(res))
			if stats {
				fmt.Fprintf(os.Stderr, "%d nodes, %d script bytes, %d timers\n",
					res.Nodes, len(res.Script), len(res.Timers))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&client.runtime, "runtime", "", "Client runtime: standard, legacy-ie or khtml")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print pass statistics to stderr")

	return cmd
}
