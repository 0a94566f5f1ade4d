package domain

// Trigger names the interaction path that asked for a transition. Drag and
// the explicit accept/finish buttons share one set of sequencing rules; only
// the authorization side differs per the trigger.
type Trigger string

const (
	// TriggerAccept is the accept command issued by a non-creator academy.
	TriggerAccept Trigger = "accept"
	// TriggerFinish is the creator's explicit finish action.
	TriggerFinish Trigger = "finish"
	// TriggerDrag is a creator column move on the board.
	TriggerDrag Trigger = "drag"
)

// Transition applies an authorized status move and returns the updated entity.
// Every path (buttons and drag) goes through here so the rules cannot diverge.
// Sequencing is strictly linear: the target must be the sole legal successor,
// no skipping, no going back, nothing out of finished or unknown.
//
// Authorization:
//   - accept: actor must not be the creator; AcceptedBy is set exactly once.
//   - finish: creator only.
//   - drag: creator only. A creator drag into confirmed reflects a manually
//     arranged acceptance; the acceptor identity comes from the server, so
//     AcceptedBy is left for reconciliation rather than invented locally.
func Transition(req MatchRequest, to Status, actor Actor, trigger Trigger) (MatchRequest, error) {
	want, ok := next(req.Status)
	if !ok || want != to {
		return MatchRequest{}, ErrIllegalTransition
	}

	switch to {
	case StatusConfirmed:
		switch trigger {
		case TriggerAccept:
			if req.IsCreator(actor) {
				return MatchRequest{}, ErrOwnRequest
			}
			req.AcceptedBy = string(actor)
		case TriggerDrag:
			if !req.IsCreator(actor) {
				return MatchRequest{}, ErrNotCreator
			}
		default:
			return MatchRequest{}, ErrIllegalTransition
		}
		req.Status = StatusConfirmed
	case StatusFinished:
		if !req.IsCreator(actor) {
			return MatchRequest{}, ErrNotCreator
		}
		req.Status = StatusFinished
	}
	return req, nil
}

// CanDrag reports whether the actor may pick up the card at all. Enforced at
// the drag source so an illegal drag never starts.
func CanDrag(req MatchRequest, actor Actor) bool {
	if req.Status == StatusUnknown || req.Status == StatusFinished {
		return false
	}
	return req.IsCreator(actor)
}

// CanAccept reports whether the actor may accept the request.
func CanAccept(req MatchRequest, actor Actor) bool {
	return req.Status == StatusAvailable && !req.IsCreator(actor) && actor != ""
}

// CanDelete reports whether the actor may delete the request: creator only,
// and only while unaccepted or after the match finished.
func CanDelete(req MatchRequest, actor Actor) bool {
	return AuthorizeDelete(req, actor) == nil
}

// AuthorizeDelete returns the precise rejection for an attempted delete.
func AuthorizeDelete(req MatchRequest, actor Actor) error {
	if !req.IsCreator(actor) {
		return ErrNotCreator
	}
	if req.Status != StatusAvailable && req.Status != StatusFinished {
		return ErrNotDeletable
	}
	return nil
}

// CheckInvariants verifies the structural rules every reconciled entity must
// hold: AcceptedBy set iff confirmed/finished, creator never equals acceptor,
// and a non-empty age-group set. Provisional drag state is exempt until the
// next poll fills in the acceptor.
func CheckInvariants(req MatchRequest) error {
	accepted := req.AcceptedBy != ""
	switch req.Status {
	case StatusAvailable:
		if accepted {
			return ErrIllegalTransition
		}
	case StatusConfirmed, StatusFinished:
		if !accepted {
			return ErrIllegalTransition
		}
	}
	if accepted && req.AcceptedBy == req.CreatorID {
		return ErrOwnRequest
	}
	if len(req.AgeGroups) == 0 {
		return &ValidationError{Fields: map[string]string{"ageGroups": "must not be empty"}}
	}
	return nil
}
