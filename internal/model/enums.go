package model

// Priority ranks deals and tasks
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DealStatus is the pipeline stage of a deal. DealStatusOther defers to free text.
type DealStatus string

const (
	DealStatusNew         DealStatus = "new"
	DealStatusNegotiation DealStatus = "negotiation"
	DealStatusApproved    DealStatus = "approved"
	DealStatusWon         DealStatus = "won"
	DealStatusLost        DealStatus = "lost"
	DealStatusOther       DealStatus = "other"
)

// Valid reports whether s is a known deal status
func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusNew, DealStatusNegotiation, DealStatusApproved, DealStatusWon, DealStatusLost, DealStatusOther:
		return true
	}
	return false
}

// TaskStatus is the progress of a task. TaskStatusOther defers to free text.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusOther      TaskStatus = "other"
)

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone, TaskStatusCancelled, TaskStatusOther:
		return true
	}
	return false
}

// InteractionType classifies an interaction. InteractionTypeOther defers to free text.
type InteractionType string

const (
	InteractionTypeCall    InteractionType = "call"
	InteractionTypeEmail   InteractionType = "email"
	InteractionTypeMeeting InteractionType = "meeting"
	InteractionTypeMessage InteractionType = "message"
	InteractionTypeOther   InteractionType = "other"
)

// Valid reports whether t is a known interaction type
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionTypeCall, InteractionTypeEmail, InteractionTypeMeeting, InteractionTypeMessage, InteractionTypeOther:
		return true
	}
	return false
}

// LeadSource records how a client was acquired
type LeadSource string

const (
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceWebsite   LeadSource = "website"
	LeadSourceColdCall  LeadSource = "cold_call"
	LeadSourceEvent     LeadSource = "event"
	LeadSourceAdvertise LeadSource = "advertising"
	LeadSourceOther     LeadSource = "other"
)

// Valid reports whether s is a known lead source
func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceReferral, LeadSourceWebsite, LeadSourceColdCall, LeadSourceEvent, LeadSourceAdvertise, LeadSourceOther:
		return true
	}
	return false
}
