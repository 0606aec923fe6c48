package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// fetchCmd performs a bare HTTP fetch — no parsing/layout/paint — useful
// for exercising DNS/TCP/TLS/HTTP1 in isolation, the way `wt status`
// exercises the daemon connection without submitting a task.
func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [url]",
		Short: "Fetch a URL and print its status line and headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return err
			}
			p, err := newPipeline(dir)
			if err != nil {
				return err
			}
			defer p.Close()

			resp, err := p.client.Fetch(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			fmt.Printf("%s %d %s\n", resp.Proto, resp.Status, resp.Reason)
			for _, h := range resp.Headers() {
				fmt.Printf("%s: %s\n", h.Name, h.Value)
			}
			fmt.Printf("\n%d bytes body\n", len(resp.Body))
			return nil
		},
	}
}
