package model

import (
	"slices"
	"strings"
)

// Payment is a single payment received against a deal
type Payment struct {
	Amount Money
	Date   Date
	Note   string
}

// Document is a file attached to a deal
type Document struct {
	Name string
	URI  string
}

// DealParams holds the initial values of a deal
type DealParams struct {
	ID             ID
	Title          string
	Status         DealStatus
	OtherStatus    string
	Priority       Priority
	ManagerID      ID
	ClientID       ID
	ContractNumber string
	TotalAmount    Money
	CreationDate   Date
	ApprovalDate   Date
	Deadline       Date
	Tags           []string
}

// Deal is a sales opportunity with a client
type Deal struct {
	ChangeLog
	taggable

	id             ID
	title          string
	status         DealStatus
	otherStatus    string
	priority       Priority
	managerID      ID
	clientID       ID
	contractNumber string
	totalAmount    Money
	payments       []Payment
	creationDate   Date
	approvalDate   Date
	deadline       Date
	documents      []Document
}

// NewDeal creates a deal. An unknown status becomes DealStatusNew.
func NewDeal(p DealParams) *Deal {
	d := &Deal{
		id:             p.ID,
		title:          p.Title,
		status:         p.Status,
		priority:       p.Priority,
		managerID:      p.ManagerID,
		clientID:       p.ClientID,
		contractNumber: p.ContractNumber,
		totalAmount:    p.TotalAmount,
		creationDate:   p.CreationDate,
		approvalDate:   p.ApprovalDate,
		deadline:       p.Deadline,
	}
	if !d.status.Valid() {
		d.status = DealStatusNew
	}
	if d.status == DealStatusOther {
		d.otherStatus = strings.TrimSpace(p.OtherStatus)
	}
	for _, tag := range p.Tags {
		d.tags.add(tag)
	}
	return d
}

// EntityID returns the deal's immutable ID
func (d *Deal) EntityID() ID { return d.id }

func (d *Deal) Title() string          { return d.title }
func (d *Deal) Status() DealStatus     { return d.status }
func (d *Deal) OtherStatus() string    { return d.otherStatus }
func (d *Deal) Priority() Priority     { return d.priority }
func (d *Deal) ManagerID() ID          { return d.managerID }
func (d *Deal) ClientID() ID           { return d.clientID }
func (d *Deal) ContractNumber() string { return d.contractNumber }
func (d *Deal) TotalAmount() Money     { return d.totalAmount }
func (d *Deal) CreationDate() Date     { return d.creationDate }
func (d *Deal) ApprovalDate() Date     { return d.approvalDate }
func (d *Deal) Deadline() Date         { return d.deadline }

// PaidAmount is the sum of all payments
func (d *Deal) PaidAmount() Money {
	var total Money
	for _, p := range d.payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Payments returns a copy of the payment history
func (d *Deal) Payments() []Payment {
	return slices.Clone(d.payments)
}

// Documents returns a copy of the attached documents
func (d *Deal) Documents() []Document {
	return slices.Clone(d.documents)
}

// SetTitle changes the title
func (d *Deal) SetTitle(title string, actx AuditContext) bool {
	return setField(&d.ChangeLog, "title", &d.title, title, actx)
}

// SetStatus changes the status. other is kept only with DealStatusOther.
func (d *Deal) SetStatus(status DealStatus, other string, actx AuditContext) bool {
	if !status.Valid() {
		return false
	}
	other = strings.TrimSpace(other)
	if status != DealStatusOther {
		other = ""
	}
	if status == d.status && other == d.otherStatus {
		return false
	}
	old := d.statusText()
	d.status, d.otherStatus = status, other
	d.record("status", old, d.statusText(), actx)
	return true
}

func (d *Deal) statusText() string {
	if d.status == DealStatusOther {
		return string(d.status) + ":" + d.otherStatus
	}
	return string(d.status)
}

// SetPriority changes the priority
func (d *Deal) SetPriority(p Priority, actx AuditContext) bool {
	if !p.Valid() {
		return false
	}
	return setField(&d.ChangeLog, "priority", &d.priority, p, actx)
}

// SetManager reassigns the responsible internal employee
func (d *Deal) SetManager(id ID, actx AuditContext) bool {
	return setField(&d.ChangeLog, "manager", &d.managerID, id, actx)
}

// SetClient reassigns the owning client
func (d *Deal) SetClient(id ID, actx AuditContext) bool {
	return setField(&d.ChangeLog, "client", &d.clientID, id, actx)
}

// SetContractNumber changes the contract number
func (d *Deal) SetContractNumber(number string, actx AuditContext) bool {
	return setField(&d.ChangeLog, "contract_number", &d.contractNumber, strings.TrimSpace(number), actx)
}

// SetTotalAmount changes the deal value
func (d *Deal) SetTotalAmount(amount Money, actx AuditContext) bool {
	return setField(&d.ChangeLog, "total_amount", &d.totalAmount, amount, actx)
}

// AddPayment appends a payment; zero amounts are ignored
func (d *Deal) AddPayment(p Payment, actx AuditContext) bool {
	if p.Amount.IsZero() {
		return false
	}
	old := d.PaidAmount()
	d.payments = append(d.payments, p)
	d.record("paid_amount", old.String(), d.PaidAmount().String(), actx)
	return true
}

// SetApprovalDate changes the approval date
func (d *Deal) SetApprovalDate(date Date, actx AuditContext) bool {
	return setField(&d.ChangeLog, "approval_date", &d.approvalDate, date, actx)
}

// SetDeadline changes the deadline
func (d *Deal) SetDeadline(date Date, actx AuditContext) bool {
	return setField(&d.ChangeLog, "deadline", &d.deadline, date, actx)
}

// AddTag adds a tag
func (d *Deal) AddTag(tag string, actx AuditContext) bool {
	return d.addTag(&d.ChangeLog, tag, actx)
}

// RemoveTag removes a tag
func (d *Deal) RemoveTag(tag string, actx AuditContext) bool {
	return d.removeTag(&d.ChangeLog, tag, actx)
}

// AttachDocument appends a document
func (d *Deal) AttachDocument(doc Document, actx AuditContext) bool {
	if doc.Name == "" {
		return false
	}
	d.documents = append(d.documents, doc)
	d.record("documents", "", doc.Name, actx)
	return true
}
