package model

import (
	"slices"
	"strings"
)

// InteractionParams holds the initial values of an interaction
type InteractionParams struct {
	ID             ID
	Subject        string
	Type           InteractionType
	OtherType      string
	ParticipantIDs []ID
	DealID         ID
	CreationDate   Date
	StartDate      Date
	EndDate        Date
	Notes          string
	Tags           []string
}

// Interaction is a recorded contact (call, meeting, email) between persons
type Interaction struct {
	ChangeLog
	taggable

	id           ID
	subject      string
	kind         InteractionType
	otherType    string
	participants idSet
	dealID       ID
	creationDate Date
	startDate    Date
	endDate      Date
	notes        string
}

// NewInteraction creates an interaction. An unknown type becomes InteractionTypeOther.
func NewInteraction(p InteractionParams) *Interaction {
	in := &Interaction{
		id:           p.ID,
		subject:      p.Subject,
		kind:         p.Type,
		dealID:       p.DealID,
		creationDate: p.CreationDate,
		startDate:    p.StartDate,
		endDate:      p.EndDate,
		notes:        p.Notes,
	}
	if !in.kind.Valid() {
		in.kind = InteractionTypeOther
	}
	if in.kind == InteractionTypeOther {
		in.otherType = strings.TrimSpace(p.OtherType)
	}
	for _, id := range p.ParticipantIDs {
		if !id.IsZero() {
			in.participants.add(id)
		}
	}
	for _, tag := range p.Tags {
		in.tags.add(tag)
	}
	return in
}

// EntityID returns the interaction's immutable ID
func (in *Interaction) EntityID() ID { return in.id }

func (in *Interaction) Subject() string       { return in.subject }
func (in *Interaction) Type() InteractionType { return in.kind }
func (in *Interaction) OtherType() string     { return in.otherType }
func (in *Interaction) DealID() ID            { return in.dealID }
func (in *Interaction) CreationDate() Date    { return in.creationDate }
func (in *Interaction) StartDate() Date       { return in.startDate }
func (in *Interaction) EndDate() Date         { return in.endDate }
func (in *Interaction) Notes() string         { return in.notes }

// ParticipantIDs returns the participants in ID order
func (in *Interaction) ParticipantIDs() []ID {
	return slices.Clone(in.participants)
}

// HasParticipant reports whether id takes part in the interaction
func (in *Interaction) HasParticipant(id ID) bool {
	return in.participants.contains(id)
}

func (in *Interaction) SetSubject(subject string, actx AuditContext) bool {
	return setField(&in.ChangeLog, "subject", &in.subject, subject, actx)
}

// SetType changes the type. other is kept only with InteractionTypeOther.
func (in *Interaction) SetType(kind InteractionType, other string, actx AuditContext) bool {
	if !kind.Valid() {
		return false
	}
	other = strings.TrimSpace(other)
	if kind != InteractionTypeOther {
		other = ""
	}
	if kind == in.kind && other == in.otherType {
		return false
	}
	old := string(in.kind) + ":" + in.otherType
	in.kind, in.otherType = kind, other
	in.record("type", old, string(in.kind)+":"+in.otherType, actx)
	return true
}

func (in *Interaction) AddParticipant(id ID, actx AuditContext) bool {
	if id.IsZero() || !in.participants.add(id) {
		return false
	}
	in.record("participants", "", id.String(), actx)
	return true
}

func (in *Interaction) RemoveParticipant(id ID, actx AuditContext) bool {
	if !in.participants.remove(id) {
		return false
	}
	in.record("participants", id.String(), "", actx)
	return true
}

func (in *Interaction) SetDeal(id ID, actx AuditContext) bool {
	return setField(&in.ChangeLog, "deal", &in.dealID, id, actx)
}

func (in *Interaction) SetStartDate(date Date, actx AuditContext) bool {
	return setField(&in.ChangeLog, "start_date", &in.startDate, date, actx)
}

func (in *Interaction) SetEndDate(date Date, actx AuditContext) bool {
	return setField(&in.ChangeLog, "end_date", &in.endDate, date, actx)
}

func (in *Interaction) SetNotes(notes string, actx AuditContext) bool {
	return setField(&in.ChangeLog, "notes", &in.notes, notes, actx)
}

func (in *Interaction) AddTag(tag string, actx AuditContext) bool {
	return in.addTag(&in.ChangeLog, tag, actx)
}

func (in *Interaction) RemoveTag(tag string, actx AuditContext) bool {
	return in.removeTag(&in.ChangeLog, tag, actx)
}
