package model

import "strings"

// TaskParams holds the initial values of a task
type TaskParams struct {
	ID           ID
	Title        string
	Description  string
	Status       TaskStatus
	OtherStatus  string
	Priority     Priority
	OwnerID      ID
	DealID       ID
	CreationDate Date
	StartDate    Date
	Deadline     Date
	EndDate      Date
	Tags         []string
}

// Task is a unit of work assigned to an employee, optionally tied to a deal
type Task struct {
	ChangeLog
	taggable

	id           ID
	title        string
	description  string
	status       TaskStatus
	otherStatus  string
	priority     Priority
	ownerID      ID
	dealID       ID
	creationDate Date
	startDate    Date
	deadline     Date
	endDate      Date
}

// NewTask creates a task. An unknown status becomes TaskStatusOpen.
func NewTask(p TaskParams) *Task {
	t := &Task{
		id:           p.ID,
		title:        p.Title,
		description:  p.Description,
		status:       p.Status,
		priority:     p.Priority,
		ownerID:      p.OwnerID,
		dealID:       p.DealID,
		creationDate: p.CreationDate,
		startDate:    p.StartDate,
		deadline:     p.Deadline,
		endDate:      p.EndDate,
	}
	if !t.status.Valid() {
		t.status = TaskStatusOpen
	}
	if t.status == TaskStatusOther {
		t.otherStatus = strings.TrimSpace(p.OtherStatus)
	}
	for _, tag := range p.Tags {
		t.tags.add(tag)
	}
	return t
}

// EntityID returns the task's immutable ID
func (t *Task) EntityID() ID { return t.id }

func (t *Task) Title() string        { return t.title }
func (t *Task) Description() string  { return t.description }
func (t *Task) Status() TaskStatus   { return t.status }
func (t *Task) OtherStatus() string  { return t.otherStatus }
func (t *Task) Priority() Priority   { return t.priority }
func (t *Task) OwnerID() ID          { return t.ownerID }
func (t *Task) DealID() ID           { return t.dealID }
func (t *Task) CreationDate() Date   { return t.creationDate }
func (t *Task) StartDate() Date      { return t.startDate }
func (t *Task) Deadline() Date       { return t.deadline }
func (t *Task) EndDate() Date        { return t.endDate }

func (t *Task) SetTitle(title string, actx AuditContext) bool {
	return setField(&t.ChangeLog, "title", &t.title, title, actx)
}

func (t *Task) SetDescription(desc string, actx AuditContext) bool {
	return setField(&t.ChangeLog, "description", &t.description, desc, actx)
}

// SetStatus changes the status. other is kept only with TaskStatusOther.
func (t *Task) SetStatus(status TaskStatus, other string, actx AuditContext) bool {
	if !status.Valid() {
		return false
	}
	other = strings.TrimSpace(other)
	if status != TaskStatusOther {
		other = ""
	}
	if status == t.status && other == t.otherStatus {
		return false
	}
	old := string(t.status) + ":" + t.otherStatus
	t.status, t.otherStatus = status, other
	t.record("status", old, string(t.status)+":"+t.otherStatus, actx)
	return true
}

func (t *Task) SetPriority(p Priority, actx AuditContext) bool {
	if !p.Valid() {
		return false
	}
	return setField(&t.ChangeLog, "priority", &t.priority, p, actx)
}

func (t *Task) SetOwner(id ID, actx AuditContext) bool {
	return setField(&t.ChangeLog, "owner", &t.ownerID, id, actx)
}

func (t *Task) SetDeal(id ID, actx AuditContext) bool {
	return setField(&t.ChangeLog, "deal", &t.dealID, id, actx)
}

func (t *Task) SetStartDate(date Date, actx AuditContext) bool {
	return setField(&t.ChangeLog, "start_date", &t.startDate, date, actx)
}

func (t *Task) SetDeadline(date Date, actx AuditContext) bool {
	return setField(&t.ChangeLog, "deadline", &t.deadline, date, actx)
}

func (t *Task) SetEndDate(date Date, actx AuditContext) bool {
	return setField(&t.ChangeLog, "end_date", &t.endDate, date, actx)
}

func (t *Task) AddTag(tag string, actx AuditContext) bool {
	return t.addTag(&t.ChangeLog, tag, actx)
}

func (t *Task) RemoveTag(tag string, actx AuditContext) bool {
	return t.removeTag(&t.ChangeLog, tag, actx)
}
