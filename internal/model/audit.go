package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditContext identifies who changed an entity and why. Stores pass it through unexamined.
type AuditContext struct {
	ActorID   ID
	RequestID uuid.UUID
	Reason    string
}

// NewAuditContext creates an audit context with a fresh request ID
func NewAuditContext(actor ID, reason string) AuditContext {
	return AuditContext{
		ActorID:   actor,
		RequestID: uuid.New(),
		Reason:    reason,
	}
}

// Change is a single audit record
type Change struct {
	At    time.Time
	Field string
	Old   string
	New   string
	Actor AuditContext
}

// ChangeLog is an append-only list of changes
type ChangeLog struct {
	changes []Change
	now     func() time.Time
}

func (l *ChangeLog) record(field, oldValue, newValue string, actx AuditContext) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	l.changes = append(l.changes, Change{
		At:    now(),
		Field: field,
		Old:   oldValue,
		New:   newValue,
		Actor: actx,
	})
}

// Changes returns a copy of the recorded changes
func (l *ChangeLog) Changes() []Change {
	out := make([]Change, len(l.changes))
	copy(out, l.changes)
	return out
}

// ChangeCount returns the number of recorded changes
func (l *ChangeLog) ChangeCount() int {
	return len(l.changes)
}

// SetClock replaces the time source for subsequent records
func (l *ChangeLog) SetClock(now func() time.Time) {
	l.now = now
}
