package teststubs

import (
	"time"

	"academy-match-service/internal/domain"
)

// Request builds a valid MatchRequest for tests. AcceptedBy is filled for
// confirmed/finished states so invariants hold out of the box.
func Request(id, creator string, status domain.Status) domain.MatchRequest {
	req := domain.MatchRequest{
		ID:          id,
		CreatorID:   creator,
		Academy:     domain.AcademySnapshot{Name: "Testing FC"},
		AgeGroups:   []string{"U12"},
		ScheduledAt: time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC),
		Venue: domain.Venue{
			Kind:    domain.VenueHome,
			Address: "1 Training Ground Rd",
		},
		ContactPhone:  "555-0101",
		DurationHours: 1.5,
		Status:        status,
		CreatedAt:     time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
	if status == domain.StatusConfirmed || status == domain.StatusFinished {
		req.AcceptedBy = "acceptor-academy"
	}
	return req
}
