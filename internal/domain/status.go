package domain

// Wire vocabulary used by the hub API. The mapping to local statuses is a
// fixed bijection applied in both directions; anything else is a data error.
const (
	wireRequested = "requested"
	wireConfirmed = "confirmed"
	wireFinished  = "finished"
)

// ParseWireStatus maps a hub status value onto the local vocabulary.
func ParseWireStatus(raw string) (Status, error) {
	switch raw {
	case wireRequested:
		return StatusAvailable, nil
	case wireConfirmed:
		return StatusConfirmed, nil
	case wireFinished:
		return StatusFinished, nil
	default:
		return StatusUnknown, &UnknownStatusError{Value: raw}
	}
}

// FormatWireStatus maps a local status back onto the hub vocabulary.
func FormatWireStatus(s Status) (string, error) {
	switch s {
	case StatusAvailable:
		return wireRequested, nil
	case StatusConfirmed:
		return wireConfirmed, nil
	case StatusFinished:
		return wireFinished, nil
	default:
		return "", &UnknownStatusError{Value: string(s)}
	}
}

// next returns the sole legal successor of a status. The lifecycle is strictly
// linear; there is no skipping and no going back.
func next(s Status) (Status, bool) {
	switch s {
	case StatusAvailable:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusFinished, true
	default:
		return "", false
	}
}
