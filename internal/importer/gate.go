package importer

import (
	"fmt"
	"strings"
)

// MismatchError names the first row whose channel differs from the selection.
type MismatchError struct {
	Row      int
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Channel mismatch found at row %d. Expected %q, got %q", e.Row, e.Expected, e.Got)
}

// CheckChannel verifies every row belongs to selected. It stops at the first
// mismatch so the whole import is refused.
func CheckChannel(s *Sheet, selected string) error {
	if len(s.Rows) == 0 {
		return ErrNoRows
	}
	if !s.HasColumn(ChannelColumn) {
		return ErrNoChannelColumn
	}
	want := strings.ToLower(strings.TrimSpace(selected))
	for _, row := range s.Rows {
		raw := row.Get(ChannelColumn)
		if strings.ToLower(strings.TrimSpace(raw)) != want {
			return &MismatchError{Row: row.Number, Expected: selected, Got: raw}
		}
	}
	return nil
}
