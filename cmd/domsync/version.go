package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	clientdist "github.com/vango-dev/domsync/client/dist"
	"github.com/vango-dev/domsync/pkg/protocol"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build and runtime information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, version)
				return err
			}

			sum := sha256.Sum256(clientdist.RuntimeJS)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "domsync\t%s (%s, %s)\n", version, commit, date)
			fmt.Fprintf(w, "client runtime\t%d bytes, sha256 %s\n", len(clientdist.RuntimeJS), hex.EncodeToString(sum[:8]))
			fmt.Fprintf(w, "frame header\t%d bytes, payload limit %d\n", protocol.FrameHeaderSize, protocol.MaxPayloadSize)
			fmt.Fprintf(w, "toolchain\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print the version number only")
	return cmd
}
