package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [path|name]",
		Short: "serve plots over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("watch") {
				watch = cfg.Serve.Watch
			}

			var opts []server.Option
			if watch {
				opts = append(opts, server.WithWatch())
			}
			srv := server.New(resolveSource(cfg, argOrEmpty(args)), opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				// Addr is set once the listener is bound.
				for srv.Addr() == "" {
					select {
					case <-ctx.Done():
						return
					case <-time.After(10 * time.Millisecond):
					}
				}
				fmt.Printf("serving on http://%s\n", srv.Addr())
			}()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8590)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the source changes")
	return cmd
}
