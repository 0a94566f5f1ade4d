package academyhub

import "time"

// ProviderName identifies this gateway in logs and metrics.
const ProviderName = "academyhub"

const (
	defaultBaseURL     = "https://api.academyhub.example/v1"
	defaultHTTPTimeout = 10 * time.Second

	headerActor          = "X-Academy-ID"
	headerIdempotencyKey = "Idempotency-Key"
)
