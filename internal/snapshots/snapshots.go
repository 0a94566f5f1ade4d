package snapshots

import (
	"time"

	"academy-match-service/internal/domain"
)

// BoardSnapshot is the persisted form of one reconciled board state.
type BoardSnapshot struct {
	Date     string                `json:"date"`
	SyncedAt time.Time             `json:"syncedAt"`
	Requests []domain.MatchRequest `json:"requests"`
}

// NewBoardSnapshot builds a snapshot for the given date.
func NewBoardSnapshot(date string, requests []domain.MatchRequest) BoardSnapshot {
	if requests == nil {
		requests = []domain.MatchRequest{}
	}
	return BoardSnapshot{
		Date:     date,
		SyncedAt: time.Now().UTC(),
		Requests: requests,
	}
}
