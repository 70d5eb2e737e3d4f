package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid-go/internal/demoserver"
	"github.com/daygrid/daygrid-go/internal/logger"
)

func init() {
	var addr string
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an in-memory demo backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("demoserver")
			srv := &http.Server{
				Addr:         addr,
				Handler:      demoserver.New(log).Router(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			log.Info().Str("addr", addr).Msg("demo backend listening")
			_, _ = fmt.Fprintf(os.Stdout, "demo backend listening on %s\n", addr)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				log.Info().Msg("shutting down")
				return srv.Close()
			}
		},
	}
	demoCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "Listen address")
	rootCmd.AddCommand(demoCmd)
}
