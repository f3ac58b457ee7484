package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sambabib/dockerfile-gen/pkg/api"
	"github.com/sambabib/dockerfile-gen/pkg/logger"
)

var serveAddr string

// serveCmd represents the serve subcommand
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Dockerfile store over a REST API",
	Long:  "Start an HTTP server exposing stored Dockerfiles: create, list, fetch by date and name, and statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		if envPort := os.Getenv("PORT"); envPort != "" && serveAddr == "" {
			if strings.HasPrefix(envPort, ":") {
				addr = envPort
			} else {
				addr = ":" + envPort
			}
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats(cmd.Context())
		if err == nil {
			logger.Infof("Store ready with %d entries", stats.TotalDockerfiles)
		}

		server := api.New(addr, st)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config server.addr or PORT)")
}
