package board

import (
	"fmt"

	"academy-match-service/internal/domain"
)

// Column identifies a board column. Columns map to lifecycle statuses through
// a fixed bijection applied consistently in both directions.
type Column string

const (
	ColumnAvailable Column = "available"
	ColumnConfirmed Column = "confirmed"
	ColumnFinished  Column = "finished"
)

// Columns returns the board order, left to right.
func Columns() []Column {
	return []Column{ColumnAvailable, ColumnConfirmed, ColumnFinished}
}

// StatusFor maps a column to its lifecycle status.
func StatusFor(c Column) (domain.Status, error) {
	switch c {
	case ColumnAvailable:
		return domain.StatusAvailable, nil
	case ColumnConfirmed:
		return domain.StatusConfirmed, nil
	case ColumnFinished:
		return domain.StatusFinished, nil
	default:
		return "", fmt.Errorf("unknown board column %q", c)
	}
}

// ColumnFor maps a status to its column. Unknown-status entities have no
// column of their own; callers render them separately.
func ColumnFor(s domain.Status) (Column, bool) {
	switch s {
	case domain.StatusAvailable:
		return ColumnAvailable, true
	case domain.StatusConfirmed:
		return ColumnConfirmed, true
	case domain.StatusFinished:
		return ColumnFinished, true
	default:
		return "", false
	}
}

// View is the grouped board shape served to clients.
type View struct {
	Columns map[Column][]domain.MatchRequest `json:"columns"`
	Unknown []domain.MatchRequest            `json:"unknown,omitempty"`
}

// BuildView groups requests into columns, keeping store order within each.
// Entities with an unmappable status land in Unknown instead of crashing or
// being coerced into a column.
func BuildView(requests []domain.MatchRequest) View {
	view := View{Columns: make(map[Column][]domain.MatchRequest, 3)}
	for _, c := range Columns() {
		view.Columns[c] = []domain.MatchRequest{}
	}
	for _, r := range requests {
		col, ok := ColumnFor(r.Status)
		if !ok {
			view.Unknown = append(view.Unknown, r)
			continue
		}
		view.Columns[col] = append(view.Columns[col], r)
	}
	return view
}
