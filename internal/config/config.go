package config

import "strings"

// Config holds runtime configuration for the service.
type Config struct {
	Port         string
	PollInterval Duration
	PollEnabled  bool
	// AcademyID is the default acting identity when a request carries none.
	// Lifecycle checks always receive the actor explicitly; this is only the
	// deployment-level fallback for single-academy installs.
	AcademyID    string
	ChangeHold   Duration
	TombstoneTTL Duration
	CORSOrigins  []string
	Hub          HubConfig
	Metrics      MetricsConfig
	Snapshots    SnapshotConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		PollEnabled:  boolEnvOrDefault(envPollEnabled, true),
		AcademyID:    envOrDefault(envAcademyID, ""),
		ChangeHold:   durationEnvOrDefault(envChangeHold, defaultChangeHold),
		TombstoneTTL: durationEnvOrDefault(envTombstoneTTL, defaultTombstoneTTL),
		CORSOrigins:  splitList(envOrDefault(envCORSOrigins, "*")),
		Hub:          loadHub(),
		Metrics:      loadMetrics(),
		Snapshots:    loadSnapshots(),
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
