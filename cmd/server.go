package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/uire/internal/api"
	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/config"
	"github.com/ziadkadry99/uire/internal/db"
	"github.com/ziadkadry99/uire/internal/detect"
	"github.com/ziadkadry99/uire/internal/ratelimit"
	"github.com/ziadkadry99/uire/internal/resolve"
	"github.com/ziadkadry99/uire/internal/server"
	"github.com/ziadkadry99/uire/internal/store"
	"github.com/ziadkadry99/uire/internal/telemetry"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  `Starts the uire HTTP server exposing the detect, clarify, resolve, memory and consent endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverPort != 0 {
			cfg.Port = serverPort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, "uire.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Event logger (JSONL).
		events, err := telemetry.NewEventLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		defer events.Sync()

		metrics := telemetry.NewRegistry()

		// Create and start server.
		server.Version = Version
		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.CORSAllowAll,
		}, metrics)

		handler := api.New(api.Deps{
			Detector:  detect.New(),
			Clarifier: clarify.New(),
			Resolver:  resolve.New(),
			Prefs:     store.NewPreferenceStore(database),
			Consent:   store.NewConsentStore(database),
			Limiter:   ratelimit.New(cfg.RateLimit),
			Metrics:   metrics,
			Events:    events,
			Salt:      cfg.Salt,
			APIKey:    cfg.APIKey,
		})
		handler.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "uire server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Event log: %s\n", cfg.EventLog)
		fmt.Fprintf(os.Stderr, "  Rate limit: %.0f req/s per client\n", cfg.RateLimit)

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
