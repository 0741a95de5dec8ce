package memento

import (
	"fmt"
	"time"
)

// Unit is one undoable step: a single record or a collapsed batch.
type Unit struct {
	description string
	records     []*ChangeRecord
	timestamp   time.Time
}

func newUnit(description string, records []*ChangeRecord) *Unit {
	return &Unit{
		description: description,
		records:     records,
		timestamp:   time.Now(),
	}
}

// Records returns a copy of the unit's records in recording order.
func (u *Unit) Records() []*ChangeRecord {
	out := make([]*ChangeRecord, len(u.records))
	copy(out, u.records)
	return out
}

// Len returns the number of mutation records, excluding batch markers.
func (u *Unit) Len() int {
	n := 0
	for _, r := range u.records {
		if !r.IsBoundary() {
			n++
		}
	}
	return n
}

// Description returns a human-readable description.
func (u *Unit) Description() string {
	if u.description != "" {
		return u.description
	}
	var only *ChangeRecord
	for _, r := range u.records {
		if r.IsBoundary() {
			continue
		}
		if only != nil {
			return fmt.Sprintf("%d changes", u.Len())
		}
		only = r
	}
	if only == nil {
		return "empty"
	}
	return only.describe()
}

// Timestamp returns when the unit was pushed.
func (u *Unit) Timestamp() time.Time {
	return u.timestamp
}

// revert applies the inverse of every record, newest first.
func (u *Unit) revert() error {
	for i := len(u.records) - 1; i >= 0; i-- {
		r := u.records[i]
		if err := r.apply(false); err != nil {
			return &ApplyError{Op: "undo", Record: r, Err: err}
		}
	}
	return nil
}

// reapply applies every record forward, oldest first.
func (u *Unit) reapply() error {
	for _, r := range u.records {
		if err := r.apply(true); err != nil {
			return &ApplyError{Op: "redo", Record: r, Err: err}
		}
	}
	return nil
}

// hasMutations reports whether records holds anything besides markers.
func hasMutations(records []*ChangeRecord) bool {
	for _, r := range records {
		if !r.IsBoundary() {
			return true
		}
	}
	return false
}

// UnitInfo provides read-only info about a unit.
// Used for displaying undo/redo history to users.
type UnitInfo struct {
	Description string
	Timestamp   time.Time
	Records     int
}

func (u *Unit) info() UnitInfo {
	return UnitInfo{
		Description: u.Description(),
		Timestamp:   u.timestamp,
		Records:     u.Len(),
	}
}
