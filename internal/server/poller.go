package server

import (
	"context"

	"academy-match-service/internal/poller"
)

// Poller defines the minimal subscription behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Refresh()
	View() poller.State
	Status() poller.Status
}
