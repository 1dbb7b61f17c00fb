package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actx = NewAuditContext(NewID(1), "test")

func TestSettersRecordChanges(t *testing.T) {
	d := NewDeal(DealParams{ID: NewID(1), Title: "Renewal", TotalAmount: MustParseMoney("100")})
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return at })

	assert.False(t, d.SetTitle("Renewal", actx), "unchanged value")
	assert.Zero(t, d.ChangeCount())

	require.True(t, d.SetTitle("Upsell", actx))
	require.True(t, d.SetTotalAmount(MustParseMoney("250"), actx))
	require.True(t, d.SetManager(NewID(10), actx))

	changes := d.Changes()
	require.Len(t, changes, 3)
	assert.Equal(t, Change{At: at, Field: "title", Old: "Renewal", New: "Upsell", Actor: actx}, changes[0])
	assert.Equal(t, "100.00", changes[1].Old)
	assert.Equal(t, "250.00", changes[1].New)
	assert.Equal(t, "", changes[2].Old)
	assert.Equal(t, "10", changes[2].New)

	changes[0].Field = "mutated"
	assert.Equal(t, "title", d.Changes()[0].Field, "Changes returns a copy")
	assert.NotEqual(t, NewAuditContext(NewID(1), "test").RequestID, actx.RequestID)
}

func TestDealStatus(t *testing.T) {
	d := NewDeal(DealParams{ID: NewID(1), Status: "paused", OtherStatus: "ignored"})
	assert.Equal(t, DealStatusNew, d.Status())
	assert.Empty(t, d.OtherStatus())

	assert.False(t, d.SetStatus("paused", "", actx))
	require.True(t, d.SetStatus(DealStatusOther, "  On hold ", actx))
	assert.Equal(t, "On hold", d.OtherStatus())
	assert.False(t, d.SetStatus(DealStatusOther, "On hold", actx))

	require.True(t, d.SetStatus(DealStatusWon, "leftover", actx))
	assert.Empty(t, d.OtherStatus(), "free text is dropped with a known status")

	last := d.Changes()[d.ChangeCount()-1]
	assert.Equal(t, "other:On hold", last.Old)
	assert.Equal(t, "won", last.New)
}

func TestDealPaymentsAndDocuments(t *testing.T) {
	d := NewDeal(DealParams{ID: NewID(1)})

	assert.False(t, d.AddPayment(Payment{}, actx))
	require.True(t, d.AddPayment(Payment{Amount: MustParseMoney("100"), Date: NewDate(2024, 1, 1)}, actx))
	require.True(t, d.AddPayment(Payment{Amount: MustParseMoney("50.25")}, actx))
	assert.Equal(t, MustParseMoney("150.25"), d.PaidAmount())
	assert.Len(t, d.Payments(), 2)

	assert.False(t, d.AttachDocument(Document{}, actx))
	require.True(t, d.AttachDocument(Document{Name: "contract.pdf"}, actx))
	docs := d.Documents()
	docs[0].Name = "mutated"
	assert.Equal(t, "contract.pdf", d.Documents()[0].Name)
}

func TestTags(t *testing.T) {
	task := NewTask(TaskParams{ID: NewID(1), Tags: []string{"Renewal", "renewal ", "q3"}})
	assert.Equal(t, []string{"q3", "renewal"}, task.Tags())
	assert.True(t, task.HasTag("RENEWAL"))

	assert.False(t, task.AddTag("Q3", actx))
	assert.False(t, task.AddTag("  ", actx))
	require.True(t, task.AddTag("Urgent", actx))
	require.True(t, task.RemoveTag("q3", actx))
	assert.False(t, task.RemoveTag("q3", actx))
	assert.Equal(t, []string{"renewal", "urgent"}, task.Tags())
}

func TestInteractionParticipants(t *testing.T) {
	in := NewInteraction(InteractionParams{
		ID:             NewID(1),
		Type:           "webinar",
		ParticipantIDs: []ID{NewID(10), NewID(9), NewID(10), {}},
	})
	assert.Equal(t, InteractionTypeOther, in.Type())
	assert.Equal(t, []ID{NewID(9), NewID(10)}, in.ParticipantIDs())

	assert.False(t, in.AddParticipant(NewID(9), actx))
	assert.False(t, in.AddParticipant(ID{}, actx))
	require.True(t, in.AddParticipant(NewID(100), actx))
	require.True(t, in.RemoveParticipant(NewID(9), actx))
	assert.Equal(t, []ID{NewID(10), NewID(100)}, in.ParticipantIDs())
	assert.True(t, in.HasParticipant(NewID(100)))
}

func TestPersonVariants(t *testing.T) {
	client := NewPerson(PersonParams{
		ID:      NewID(1),
		Name:    " Carl ",
		Phone:   "+1 (555) 010-9999",
		Details: ClientDetails{CompanyID: NewID(5), OwnerID: NewID(10), LeadSource: LeadSourceReferral},
	})
	employee := NewPerson(PersonParams{
		ID:      NewID(2),
		Name:    "Maria",
		Surname: "Lopez",
		Details: InternalEmployeeDetails{Department: "Sales", Position: "Head"},
	})
	contact := NewPerson(PersonParams{
		ID:      NewID(3),
		Name:    "Xena",
		Details: ExternalEmployeeDetails{CompanyID: NewID(5)},
	})

	assert.Equal(t, "Carl", client.Name())
	assert.Equal(t, "+15550109999", client.Phone())
	assert.Equal(t, "Maria Lopez", employee.FullName())

	tests := []struct {
		name    string
		person  *Person
		kind    PersonKind
		company bool
		owner   bool
		manager bool
		dept    bool
	}{
		{name: "client", person: client, kind: PersonKindClient, company: true, owner: true},
		{name: "internal employee", person: employee, kind: PersonKindInternalEmployee, dept: true},
		{name: "external employee", person: contact, kind: PersonKindExternalEmployee, company: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.person.Kind())
			_, ok := tt.person.CompanyID()
			assert.Equal(t, tt.company, ok)
			_, ok = tt.person.OwnerID()
			assert.Equal(t, tt.owner, ok)
			_, ok = tt.person.ManagerID()
			assert.Equal(t, tt.manager, ok)
			_, ok = tt.person.Department()
			assert.Equal(t, tt.dept, ok)
		})
	}

	// setters only apply to the variants that carry the field
	assert.False(t, employee.SetCompany(NewID(6), actx))
	assert.False(t, contact.SetOwner(NewID(10), actx))
	assert.False(t, client.SetDepartment("Ops", actx))
	assert.False(t, client.SetPosition("Buyer", actx))

	require.True(t, employee.SetManager(NewID(20), actx))
	manager, ok := employee.ManagerID()
	require.True(t, ok)
	assert.Equal(t, NewID(20), manager)

	require.True(t, contact.SetCompany(NewID(6), actx))
	company, _ := contact.CompanyID()
	assert.Equal(t, NewID(6), company)
	require.True(t, contact.SetPosition(" Buyer ", actx))
	position, _ := contact.Position()
	assert.Equal(t, "Buyer", position)

	details := client.Details().(ClientDetails)
	details.OwnerID = NewID(99)
	owner, _ := client.OwnerID()
	assert.Equal(t, NewID(10), owner, "Details returns a copy")

	assert.Equal(t, PersonKindClient, NewPerson(PersonParams{ID: NewID(4)}).Kind())
}

func TestCompany(t *testing.T) {
	c := NewCompany(NewID(1), "Acme")
	assert.False(t, c.SetName("Acme", actx))
	require.True(t, c.SetName("Acme Corp", actx))
	assert.Equal(t, "Acme Corp", c.Name())
	assert.Equal(t, 1, c.ChangeCount())
}
