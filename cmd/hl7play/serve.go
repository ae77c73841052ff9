package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hl7play/internal/server"
	"hl7play/internal/trace"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the tokenizer and issue grouping over HTTP for the editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(server.Options{
				Addr:   addr,
				Tracer: trace.FromContext(cmd.Context()),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, func(bound string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "listening on http://%s\n", bound)
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides [server].addr")
	return cmd
}
