package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"academy-match-service/internal/config"
	"academy-match-service/internal/metrics"
)

func metricsSetupSuccess(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
	return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = metricsSetupSuccess

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{
			Enabled: true,
			Port:    "9999",
		},
	}, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatal("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("metrics addr = %s", srv.Addr())
	}
}

func TestBuildMetricsFailureFallsBackToPlainRecorder(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("exporter init failed")
	}

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{Enabled: true},
	}, nil)

	if rec == nil {
		t.Fatal("telemetry failure must still yield a usable recorder")
	}
	if srv != nil || stop != nil {
		t.Fatal("failed setup must not expose a metrics server")
	}
}

func TestBuildMetricsDisabledHasNoServer(t *testing.T) {
	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{Enabled: false},
	}, nil)

	if rec == nil {
		t.Fatal("expected recorder")
	}
	if srv != nil {
		t.Fatal("disabled metrics must not start a server")
	}
	if stop == nil {
		t.Fatal("expected noop shutdown function")
	}
}
