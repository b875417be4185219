package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tanpawarit/Chative-Parts-Assistant/internal/server"
	configx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := configx.New[server.Config]("SERVER")
		if err != nil {
			return fmt.Errorf("load server config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.Close(shutdownCtx)
		}()

		srv, err := server.New(*cfg, server.Deps{
			Chat:      a.chat,
			Tools:     a.runtime,
			Contracts: a.runtime.Registry().ListContracts(),
			Orders:    a.orders,
			Telemetry: a.telemetry,
		})
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}
