package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

func snapshotFn(tel model.Telemetry) func() model.Telemetry {
	return func() model.Telemetry { return tel }
}

func TestPushSendsSnapshot(t *testing.T) {
	var gotBody []byte
	var gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	t.Setenv("TEST_RELAY_TOKEN", "s3cret")

	r := New(Config{
		URL:      srv.URL,
		TokenEnv: "TEST_RELAY_TOKEN",
		Snapshot: snapshotFn(model.Telemetry{Status: model.StatusLive, Temp: 24.5}),
	})

	if err := r.push(context.Background()); err != nil {
		t.Fatal(err)
	}

	if gotType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotType)
	}
	if gotAuth != "Bearer s3cret" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}

	var p payload
	if err := json.Unmarshal(gotBody, &p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.SentAt == "" {
		t.Errorf("expected correlation id and timestamp, got %+v", p)
	}
	if p.Telemetry.Status != model.StatusLive || p.Telemetry.Temp != 24.5 {
		t.Errorf("unexpected telemetry in payload: %+v", p.Telemetry)
	}
}

func TestPushNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	r := New(Config{URL: srv.URL, Snapshot: snapshotFn(model.Telemetry{})})
	if err := r.push(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := New(Config{URL: srv.URL, Snapshot: snapshotFn(model.Telemetry{})})
	if err := r.push(context.Background()); err == nil {
		t.Error("expected error on non-2xx response")
	}
}

func TestRunDisabledWithoutURL(t *testing.T) {
	r := New(Config{Snapshot: snapshotFn(model.Telemetry{})})

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("relay without a URL must return immediately")
	}
}
