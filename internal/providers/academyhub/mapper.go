package academyhub

import (
	"academy-match-service/internal/domain"
	"academy-match-service/internal/timeutil"
)

// mapMatch converts a wire match to the domain shape. An unmappable status
// yields the entity in the unknown render state plus the error so callers can
// log the data problem without dropping the row.
func mapMatch(m matchResponse) (domain.MatchRequest, error) {
	status, statusErr := domain.ParseWireStatus(m.Status)

	scheduledAt, err := timeutil.MergeDateTime(m.MatchDate, m.MatchTime)
	if err != nil {
		return domain.MatchRequest{}, err
	}

	req := domain.MatchRequest{
		ID:        m.ID,
		CreatorID: m.AcademyID,
		Academy: domain.AcademySnapshot{
			Name: m.Academy.Name,
			Logo: m.Academy.Logo,
		},
		AgeGroups:     domain.SplitAgeGroups(m.AgeGroup),
		ScheduledAt:   scheduledAt,
		Venue:         mapVenue(m),
		ContactPhone:  m.Phone,
		DurationHours: m.Duration,
		Description:   m.Description,
		Status:        status,
		AcceptedBy:    m.AcceptedBy,
		CreatedAt:     m.CreatedAt,
	}
	return req, statusErr
}

func mapVenue(m matchResponse) domain.Venue {
	v := domain.Venue{}
	switch m.LocationType {
	case "away":
		v.Kind = domain.VenueAway
		v.Name = m.Stadium
	default:
		v.Kind = domain.VenueHome
		v.Address = m.Address
	}
	if m.Latitude != nil && m.Longitude != nil {
		v.Location = &domain.GeoPoint{Lat: *m.Latitude, Lng: *m.Longitude}
	}
	return v
}

// mapDraft converts a creation draft into the hub's create body.
func mapDraft(d domain.Draft) createMatchRequest {
	date, clock := timeutil.SplitDateTime(d.ScheduledAt)
	body := createMatchRequest{
		AgeGroup:     domain.JoinAgeGroups(d.AgeGroups),
		MatchDate:    date,
		MatchTime:    clock,
		LocationType: string(d.Venue.Kind),
		Phone:        d.ContactPhone,
		Duration:     d.DurationHours,
		Description:  d.Description,
	}
	switch d.Venue.Kind {
	case domain.VenueAway:
		body.Stadium = d.Venue.Name
	default:
		body.Address = d.Venue.Address
	}
	if loc := d.Venue.Location; loc != nil {
		lat, lng := loc.Lat, loc.Lng
		body.Latitude = &lat
		body.Longitude = &lng
	}
	return body
}
