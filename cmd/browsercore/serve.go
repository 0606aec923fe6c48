package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ehrlich-b/browsercore/internal/devtools"
)

// serveCmd starts an HTTP endpoint that renders a URL on request and
// streams every pipeline stage's snapshot to any devtools websocket
// client attached to that invocation's session, per SPEC_FULL.md §4.16.
func serveCmd() *cobra.Command {
	var addr string
	var width float64

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the devtools-observable render server",
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

			bindAddr := addr
			if p.cfg.DevtoolsBindAddr != "" {
				bindAddr = p.cfg.DevtoolsBindAddr
			}

			// One random secret per process lifetime: devtools tokens are
			// issued and verified by this same process within one run, so
			// there's no need to persist it across restarts.
			dtSecret := []byte(uuid.New().String())
			dt := &devtools.Server{Hub: p.hub, Secret: dtSecret}
			if err := dt.Start(bindAddr); err != nil {
				return fmt.Errorf("start devtools server: %w", err)
			}
			defer dt.Close()

			mux := http.NewServeMux()
			mux.HandleFunc("GET /render", func(w http.ResponseWriter, r *http.Request) {
				target := r.URL.Query().Get("url")
				if target == "" {
					http.Error(w, "missing ?url=", http.StatusBadRequest)
					return
				}

				// Render in the background so a devtools client can attach to
				// the session and watch snapshots stream in as each pipeline
				// stage finishes, rather than only seeing the final result.
				sessionID := uuid.New().String()
				go func() {
					if _, err := p.renderURL(context.Background(), target, width, sessionID); err != nil {
						p.hub.Open(sessionID).EmitLog(context.Background(), "error", err.Error())
					}
				}()

				token, err := devtools.IssueSessionToken(dtSecret, sessionID)
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				fmt.Fprintf(w, "rendering %s (session %s)\n", target, sessionID)
				fmt.Fprintf(w, "devtools: ws://%s/devtools/%s\n", bindAddr, sessionID)
				fmt.Fprintf(w, "token (required for non-loopback binds): %s\n", token)
			})

			fmt.Printf("browsercore serve listening on %s (devtools on %s)\n", addr, bindAddr)
			return http.ListenAndServe(addr, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8088", "render endpoint listen address")
	cmd.Flags().Float64Var(&width, "width", 1024, "viewport width in CSS pixels")
	return cmd
}
