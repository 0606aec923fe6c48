// Command browsercore drives the fetch→parse→layout→paint pipeline from
// the command line: `fetch` performs a bare HTTP request, `render` runs
// the full pipeline against a URL or local file, and `serve` exposes the
// devtools debug surface for an inspector to attach to. Grounded on
// cmd/wt's cobra command tree: a root command plus one file per
// subcommand, each building its own dependencies before calling into
// internal/....
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/browsercore/internal/engconfig"
	"github.com/ehrlich-b/browsercore/internal/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "browsercore",
		Short: "browsercore — a from-scratch HTML/CSS rendering engine",
		Long:  "Fetches, parses, lays out, and paints web documents without a system browser.",
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cobra.OnInitialize(func() {
		if err := logger.Init(logLevel, ""); err != nil {
			fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
			os.Exit(1)
		}
	})

	root.AddCommand(fetchCmd(), renderCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// configDir resolves the directory engconfig.Load/Save and the on-disk
// cache both live under, mirroring cmd/wt's clientFromConfig pattern of
// deriving every dependency from one loaded config.
func configDir() (string, error) {
	dir, err := engconfig.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}
