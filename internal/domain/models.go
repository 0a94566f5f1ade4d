package domain

import (
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle state of a match request.
type Status string

const (
	StatusAvailable Status = "available"
	StatusConfirmed Status = "confirmed"
	StatusFinished  Status = "finished"
	// StatusUnknown marks entities whose upstream status could not be mapped.
	// They are rendered but excluded from transitions.
	StatusUnknown Status = "unknown"
)

// Actor identifies the academy performing an operation. Authorization checks
// always receive it explicitly; nothing in this package reads ambient identity.
type Actor string

// VenueKind selects between a home and an away venue description.
type VenueKind string

const (
	VenueHome VenueKind = "home"
	VenueAway VenueKind = "away"
)

// GeoPoint is an optional coordinate pair attached to a venue.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Venue describes where the match is played. Exactly one of Address (home)
// or Name (away) is meaningful, selected by Kind at creation.
type Venue struct {
	Kind     VenueKind `json:"kind"`
	Address  string    `json:"address,omitempty"`
	Name     string    `json:"name,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// AcademySnapshot is the denormalized creator display data carried on every
// request so the board renders without extra lookups.
type AcademySnapshot struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// MatchRequest is a friendly-match proposal published by one academy and open
// for another to accept.
type MatchRequest struct {
	ID            string          `json:"id"`
	CreatorID     string          `json:"creatorId"`
	Academy       AcademySnapshot `json:"academy"`
	AgeGroups     []string        `json:"ageGroups"`
	ScheduledAt   time.Time       `json:"scheduledAt"`
	Venue         Venue           `json:"venue"`
	ContactPhone  string          `json:"contactPhone,omitempty"`
	DurationHours float64         `json:"durationHours,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        Status          `json:"status"`
	AcceptedBy    string          `json:"acceptedBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsCreator reports whether the actor published this request.
func (m MatchRequest) IsCreator(actor Actor) bool {
	return m.CreatorID != "" && m.CreatorID == string(actor)
}

// NormalizeAgeGroups deduplicates and sorts age-bracket labels. The set is
// unordered semantically but stored sorted so equality checks are stable.
func NormalizeAgeGroups(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// JoinAgeGroups renders the set in the wire format (comma-joined string).
func JoinAgeGroups(groups []string) string {
	return strings.Join(NormalizeAgeGroups(groups), ",")
}

// SplitAgeGroups parses the wire format back into a normalized set.
func SplitAgeGroups(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return NormalizeAgeGroups(strings.Split(joined, ","))
}
