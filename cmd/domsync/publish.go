package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/vango-dev/domsync/internal/config"
	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/snapshot"
)

// pagePath maps a tree file below dir to the URL path it is published
// at: index files name their directory.
func pagePath(dir, file string) string {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	if rel == "index" || strings.HasSuffix(rel, "/index") {
		rel = strings.TrimSuffix(rel, "index")
	}
	return snapshot.CleanPath(rel)
}

// collectPages loads every tree file below dir.
func collectPages(dir, title string) ([]snapshot.Page, error) {
	var pages []snapshot.Page
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTreeFile(path) {
			return nil
		}
		tree, err := loadTree(path)
		if err != nil {
			return err
		}
		pages = append(pages, snapshot.Page{Path: pagePath(dir, path), Title: title, Tree: tree})
		return nil
	})
	return pages, err
}

// envCredentials reads AWS credentials from the standard variables.
func envCredentials() aws.CredentialsProvider {
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("D060").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	}))
}

// openStore opens the snapshot store cfg names.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	if cfg.Snapshot.Store == "s3" {
		region := cfg.Snapshot.Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		client := s3.New(s3.Options{Region: region, Credentials: envCredentials()})
		return snapshot.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	}
	st, err := snapshot.OpenBolt(cfg.SnapshotPath())
	if err != nil {
		return nil, err
	}
	return st, nil
}

func publishCmd() *cobra.Command {
	var (
		store       string
		concurrency int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish [dir]",
		Short: "Write crawler snapshots of every tree in a directory",
		Long: `Render every tree file below a directory the way crawlers see it
and write the documents to the snapshot store.

File names become URL paths: pages/index.yaml is published at "/" and
pages/docs/intro.yaml at "/docs/intro".

Examples:
  domsync publish pages
  domsync publish pages --store=s3 --concurrency=8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromWorkingDir()
			if err != nil {
				return err
			}
			if store != "" {
				cfg.Snapshot.Store = store
			}
			if concurrency > 0 {
				cfg.Snapshot.Concurrency = concurrency
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			dir := "pages"
			if len(args) == 1 {
				dir = args[0]
			}
			pages, err := collectPages(dir, cfg.Server.Title)
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				warn("No tree files found in %s", dir)
				return nil
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			pub := &snapshot.Publisher{
				Renderer:    newRenderer(cfg, nil),
				Store:       st,
				Lang:        cfg.Server.Lang,
				Concurrency: cfg.Snapshot.Concurrency,
				Logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
			}
			start := time.Now()
			if err := pub.PublishAll(ctx, pages); err != nil {
				return err
			}
			success("Published %d pages to %s in %s", len(pages), cfg.Snapshot.Store, time.Since(start).Round(time.Millisecond))
			for _, p := range pages {
				info("%s", p.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", `Snapshot store, "bolt" or "s3" (default from domsync.json)`)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Pages written at once (default from domsync.json)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Give up after this long")

	return cmd
}
