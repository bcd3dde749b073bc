package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/flyboysam/SRG.Dashboard/internal/config"
	"github.com/flyboysam/SRG.Dashboard/internal/hub"
	"github.com/flyboysam/SRG.Dashboard/internal/logger"
	"github.com/flyboysam/SRG.Dashboard/internal/metrics"
	"github.com/flyboysam/SRG.Dashboard/internal/poller"
	"github.com/flyboysam/SRG.Dashboard/internal/relay"
	"github.com/flyboysam/SRG.Dashboard/internal/server"
	"github.com/flyboysam/SRG.Dashboard/internal/source"
	"github.com/flyboysam/SRG.Dashboard/internal/state"
	"github.com/flyboysam/SRG.Dashboard/internal/sysinfo"
	"github.com/flyboysam/SRG.Dashboard/internal/users"
	"github.com/flyboysam/SRG.Dashboard/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telemetry API server",
	Long: `Start the poll loop and the HTTP server. The telemetry file location
comes from the config file or the TELEM_FILE environment variable; the listen
port from the config file or PORT.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)

	accounts, err := users.Load(cfg.Server.UsersFile)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	store := state.New()
	met := metrics.New(prometheus.DefaultRegisterer)
	snapshots := hub.New()
	src := source.New(cfg.Telemetry.File, cfg.StaleTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// File-change wake-ups only work for a literal path; a glob pattern
	// falls back to pure ticker polling.
	var wake <-chan struct{}
	if !strings.ContainsAny(cfg.Telemetry.File, "*?[{") {
		if w, err := watcher.New(cfg.Telemetry.File); err != nil {
			log.Warn().Err(err).Msg("file watcher unavailable, polling only")
		} else {
			go w.Start(ctx)
			wake = w.Wake()
		}
	}

	p := poller.New(poller.Config{
		Source:   src,
		Store:    store,
		Probe:    sysinfo.New(),
		Hub:      snapshots,
		Metrics:  met,
		Interval: cfg.PollInterval(),
		Wake:     wake,
	})
	go p.Run(ctx)

	rel := relay.New(relay.Config{
		URL:      cfg.Relay.URL,
		TokenEnv: cfg.Relay.TokenEnv,
		Interval: time.Duration(cfg.Relay.IntervalSeconds) * time.Second,
		Timeout:  time.Duration(cfg.Relay.TimeoutSeconds) * time.Second,
		Snapshot: store.Snapshot,
		Metrics:  met,
	})
	go rel.Run(ctx)

	srv := server.New(store, accounts, snapshots, cfg.Server.DashboardDir)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	banner(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown timed out")
		}
		log.Info().Msg("ground station stopped cleanly")
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf(
			"failed to serve on port %d: %w\nPort may be in use. Close other instances or set PORT to another port and run again",
			cfg.Server.Port, err)
	}
}

func banner(cfg *config.Config) {
	fmt.Printf(`SRG GROUND STATION - CubeSat-SIM telemetry server
  Dashboard:  http://localhost:%d
  API:        /api/telemetry, /api/auth, /api/users
  Telemetry:  %s

`, cfg.Server.Port, cfg.Telemetry.File)
}
