// internal/core/domain/shift.go
package domain

import "time"

// ShiftState is the process-wide turno singleton: at most one shift is open
// at a time. Re-opening an already-open shift is allowed and re-snapshots
// opening stock (a deliberate re-baseline, not an error).
type ShiftState struct {
	IsOpen   bool       `json:"turno_abierto"`
	OpenedAt *time.Time `json:"fecha_apertura,omitempty"`
	ClosedAt *time.Time `json:"fecha_cierre,omitempty"`
}

// WindowStart returns the start of the shift's reporting window: the
// opening timestamp, or the start of the current day when no shift was
// ever opened.
func (s ShiftState) WindowStart(now time.Time) time.Time {
	if s.OpenedAt != nil {
		return *s.OpenedAt
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
