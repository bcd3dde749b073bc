// Package relay periodically pushes the current telemetry snapshot to a
// remote ingest endpoint, so the dashboard can be served from outside the
// ground station's network. Push failures are logged and never affect the
// local API.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flyboysam/SRG.Dashboard/internal/metrics"
	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// DefaultInterval is how often snapshots are pushed.
const DefaultInterval = 5 * time.Second

// Config wires a Relay. URL empty means the relay is disabled.
type Config struct {
	URL      string
	TokenEnv string // name of the env var holding the bearer token, if any
	Interval time.Duration
	Timeout  time.Duration

	// Snapshot returns the telemetry to push. Wired to the state store.
	Snapshot func() model.Telemetry

	Metrics *metrics.Metrics
}

// payload is the wire format sent to the ingest endpoint. Each push carries
// a correlation id so the receiver can deduplicate retried deliveries.
type payload struct {
	ID        string          `json:"id"`
	SentAt    string          `json:"sent_at"`
	Telemetry model.Telemetry `json:"telemetry"`
}

// Relay is the background pusher.
type Relay struct {
	url      string
	token    string
	interval time.Duration
	client   *http.Client
	snapshot func() model.Telemetry
	met      *metrics.Metrics
}

// New creates a Relay from cfg. Zero Interval and Timeout get defaults.
func New(cfg Config) *Relay {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var token string
	if cfg.TokenEnv != "" {
		token = os.Getenv(cfg.TokenEnv)
	}

	return &Relay{
		url:      cfg.URL,
		token:    token,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		snapshot: cfg.Snapshot,
		met:      cfg.Metrics,
	}
}

// Run pushes snapshots on the configured interval until the context is
// cancelled. No-op when no URL is configured.
func (r *Relay) Run(ctx context.Context) {
	if r.url == "" {
		return
	}

	log.Info().Str("url", r.url).Dur("interval", r.interval).Msg("cloud relay started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cloud relay stopping")
			return
		case <-ticker.C:
			if err := r.push(ctx); err != nil {
				r.count("error")
				log.Warn().Err(err).Msg("relay push failed")
				continue
			}
			r.count("ok")
		}
	}
}

// push sends one snapshot.
func (r *Relay) push(ctx context.Context) error {
	body, err := json.Marshal(payload{
		ID:        uuid.New().String(),
		SentAt:    time.Now().UTC().Format(time.RFC3339),
		Telemetry: r.snapshot(),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ingest endpoint returned %s", resp.Status)
	}
	return nil
}

func (r *Relay) count(result string) {
	if r.met != nil {
		r.met.RelayPushes.WithLabelValues(result).Inc()
	}
}
