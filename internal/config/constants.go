package config

import "time"

const (
	envPort         = "PORT"
	envPollInterval = "POLL_INTERVAL"
	envPollEnabled  = "POLL_ENABLED"
	envAcademyID    = "ACADEMY_ID"
	envChangeHold   = "CHANGE_HOLD"
	envTombstoneTTL = "DELETE_GRACE"
	envCORSOrigins  = "CORS_ALLOWED_ORIGINS"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envSnapshotDir  = "SNAPSHOT_DIR"
	envSnapshotOn   = "SNAPSHOT_ENABLED"
	envSnapshotKeep = "SNAPSHOT_RETENTION_DAYS"

	defaultPort = "4000"
	// Board latency budget: two tabs should converge within a few seconds
	// without hammering the hub.
	defaultPollInterval = 15 * Duration(time.Second)
	defaultChangeHold   = 2 * Duration(time.Second)
	// Grace window covering at least one full poll cycle so a stale snapshot
	// cannot resurrect a just-deleted request.
	defaultTombstoneTTL = 30 * Duration(time.Second)
	defaultMetricsPort  = "9090"
	defaultSnapshotOn   = true
	defaultSnapshotKeep = 7
	defaultSnapshotDir  = "data/snapshots"
)
