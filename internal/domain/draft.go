package domain

import (
	"errors"
	"time"
)

// Wizard steps of the creation flow. Each step validates independently so the
// flow blocks on the first incomplete step instead of partially submitting.
const (
	StepSchedule = "schedule"
	StepVenue    = "venue"
	StepContact  = "contact"
)

// Draft carries the creator-supplied fields of a new match request.
type Draft struct {
	AgeGroups     []string  `json:"ageGroups"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Venue         Venue     `json:"venue"`
	ContactPhone  string    `json:"contactPhone"`
	DurationHours float64   `json:"durationHours"`
	Description   string    `json:"description,omitempty"`
}

// ValidateStep checks a single wizard step.
func (d Draft) ValidateStep(step string) error {
	fields := make(map[string]string)
	switch step {
	case StepSchedule:
		if d.ScheduledAt.IsZero() {
			fields["scheduledAt"] = "required"
		}
		if len(NormalizeAgeGroups(d.AgeGroups)) == 0 {
			fields["ageGroups"] = "at least one age group required"
		}
	case StepVenue:
		switch d.Venue.Kind {
		case VenueHome:
			if d.Venue.Address == "" {
				fields["venue.address"] = "required for home matches"
			}
		case VenueAway:
			if d.Venue.Name == "" {
				fields["venue.name"] = "required for away matches"
			}
		default:
			fields["venue.kind"] = "must be home or away"
		}
	case StepContact:
		if d.ContactPhone == "" {
			fields["contactPhone"] = "required"
		}
		if d.DurationHours <= 0 {
			fields["durationHours"] = "required"
		}
	default:
		fields["step"] = "unknown wizard step"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate runs every wizard step; submission is only legal when all pass.
func (d Draft) Validate() error {
	fields := make(map[string]string)
	for _, step := range []string{StepSchedule, StepVenue, StepContact} {
		if err := d.ValidateStep(step); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for k, v := range verr.Fields {
					fields[k] = v
				}
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
