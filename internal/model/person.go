package model

import "strings"

// PersonKind tags the variant of a Person
type PersonKind string

const (
	PersonKindClient           PersonKind = "client"
	PersonKindInternalEmployee PersonKind = "internal_employee"
	PersonKindExternalEmployee PersonKind = "external_employee"
)

// PersonDetails is the closed set of per-kind details. Only the types in this file implement it.
type PersonDetails interface {
	Kind() PersonKind
	clone() PersonDetails
}

// ClientDetails describes a client contact
type ClientDetails struct {
	CompanyID  ID
	LeadSource LeadSource
	OwnerID    ID
}

func (ClientDetails) Kind() PersonKind       { return PersonKindClient }
func (d ClientDetails) clone() PersonDetails { return d }

// InternalEmployeeDetails describes a member of staff
type InternalEmployeeDetails struct {
	ManagerID  ID
	Department string
	Position   string
}

func (InternalEmployeeDetails) Kind() PersonKind       { return PersonKindInternalEmployee }
func (d InternalEmployeeDetails) clone() PersonDetails { return d }

// ExternalEmployeeDetails describes an employee of a partner or client company
type ExternalEmployeeDetails struct {
	CompanyID ID
	Position  string
}

func (ExternalEmployeeDetails) Kind() PersonKind       { return PersonKindExternalEmployee }
func (d ExternalEmployeeDetails) clone() PersonDetails { return d }

// PersonParams holds the initial values of a person
type PersonParams struct {
	ID      ID
	Name    string
	Surname string
	Email   string
	Phone   string
	Details PersonDetails
}

// Person is a client, internal employee or external employee
type Person struct {
	ChangeLog

	id      ID
	name    string
	surname string
	email   string
	phone   string
	details PersonDetails
}

// NewPerson creates a person. Details default to ClientDetails.
func NewPerson(p PersonParams) *Person {
	details := p.Details
	if details == nil {
		details = ClientDetails{}
	}
	return &Person{
		id:      p.ID,
		name:    strings.TrimSpace(p.Name),
		surname: strings.TrimSpace(p.Surname),
		email:   strings.TrimSpace(p.Email),
		phone:   NormalizePhone(p.Phone),
		details: details.clone(),
	}
}

// EntityID returns the person's immutable ID
func (p *Person) EntityID() ID { return p.id }

func (p *Person) Name() string           { return p.name }
func (p *Person) Surname() string        { return p.surname }
func (p *Person) Email() string          { return p.email }
func (p *Person) Phone() string          { return p.phone }
func (p *Person) Kind() PersonKind       { return p.details.Kind() }
func (p *Person) Details() PersonDetails { return p.details.clone() }

// FullName joins name and surname
func (p *Person) FullName() string {
	return strings.TrimSpace(p.name + " " + p.surname)
}

// CompanyID returns the company of clients and external employees
func (p *Person) CompanyID() (ID, bool) {
	switch d := p.details.(type) {
	case ClientDetails:
		return d.CompanyID, !d.CompanyID.IsZero()
	case ExternalEmployeeDetails:
		return d.CompanyID, !d.CompanyID.IsZero()
	}
	return ID{}, false
}

// ManagerID returns the manager of an internal employee
func (p *Person) ManagerID() (ID, bool) {
	if d, ok := p.details.(InternalEmployeeDetails); ok {
		return d.ManagerID, !d.ManagerID.IsZero()
	}
	return ID{}, false
}

// OwnerID returns the account owner of a client
func (p *Person) OwnerID() (ID, bool) {
	if d, ok := p.details.(ClientDetails); ok {
		return d.OwnerID, !d.OwnerID.IsZero()
	}
	return ID{}, false
}

// LeadSource returns how a client was acquired
func (p *Person) LeadSource() (LeadSource, bool) {
	if d, ok := p.details.(ClientDetails); ok {
		return d.LeadSource, d.LeadSource != ""
	}
	return "", false
}

// Department returns an internal employee's department
func (p *Person) Department() (string, bool) {
	if d, ok := p.details.(InternalEmployeeDetails); ok {
		return d.Department, d.Department != ""
	}
	return "", false
}

// Position returns the job title of either employee kind
func (p *Person) Position() (string, bool) {
	switch d := p.details.(type) {
	case InternalEmployeeDetails:
		return d.Position, d.Position != ""
	case ExternalEmployeeDetails:
		return d.Position, d.Position != ""
	}
	return "", false
}

func (p *Person) SetName(name string, actx AuditContext) bool {
	return setField(&p.ChangeLog, "name", &p.name, strings.TrimSpace(name), actx)
}

func (p *Person) SetSurname(surname string, actx AuditContext) bool {
	return setField(&p.ChangeLog, "surname", &p.surname, strings.TrimSpace(surname), actx)
}

func (p *Person) SetEmail(email string, actx AuditContext) bool {
	return setField(&p.ChangeLog, "email", &p.email, strings.TrimSpace(email), actx)
}

func (p *Person) SetPhone(phone string, actx AuditContext) bool {
	return setField(&p.ChangeLog, "phone", &p.phone, NormalizePhone(phone), actx)
}

// SetCompany moves a client or external employee to another company
func (p *Person) SetCompany(id ID, actx AuditContext) bool {
	switch d := p.details.(type) {
	case ClientDetails:
		if !setField(&p.ChangeLog, "company", &d.CompanyID, id, actx) {
			return false
		}
		p.details = d
	case ExternalEmployeeDetails:
		if !setField(&p.ChangeLog, "company", &d.CompanyID, id, actx) {
			return false
		}
		p.details = d
	default:
		return false
	}
	return true
}

// SetOwner reassigns a client's account owner
func (p *Person) SetOwner(id ID, actx AuditContext) bool {
	d, ok := p.details.(ClientDetails)
	if !ok || !setField(&p.ChangeLog, "owner", &d.OwnerID, id, actx) {
		return false
	}
	p.details = d
	return true
}

// SetLeadSource changes a client's lead source
func (p *Person) SetLeadSource(source LeadSource, actx AuditContext) bool {
	d, ok := p.details.(ClientDetails)
	if !ok || !setField(&p.ChangeLog, "lead_source", &d.LeadSource, source, actx) {
		return false
	}
	p.details = d
	return true
}

// SetManager reassigns an internal employee's manager
func (p *Person) SetManager(id ID, actx AuditContext) bool {
	d, ok := p.details.(InternalEmployeeDetails)
	if !ok || !setField(&p.ChangeLog, "manager", &d.ManagerID, id, actx) {
		return false
	}
	p.details = d
	return true
}

// SetDepartment changes an internal employee's department
func (p *Person) SetDepartment(dept string, actx AuditContext) bool {
	d, ok := p.details.(InternalEmployeeDetails)
	if !ok || !setField(&p.ChangeLog, "department", &d.Department, strings.TrimSpace(dept), actx) {
		return false
	}
	p.details = d
	return true
}

// SetPosition changes an employee's job title
func (p *Person) SetPosition(position string, actx AuditContext) bool {
	position = strings.TrimSpace(position)
	switch d := p.details.(type) {
	case InternalEmployeeDetails:
		if !setField(&p.ChangeLog, "position", &d.Position, position, actx) {
			return false
		}
		p.details = d
	case ExternalEmployeeDetails:
		if !setField(&p.ChangeLog, "position", &d.Position, position, actx) {
			return false
		}
		p.details = d
	default:
		return false
	}
	return true
}

// NormalizePhone keeps digits and a leading plus sign
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Company is an organisation clients and external employees belong to
type Company struct {
	ChangeLog

	id   ID
	name string
}

// NewCompany creates a company
func NewCompany(id ID, name string) *Company {
	return &Company{id: id, name: strings.TrimSpace(name)}
}

// EntityID returns the company's immutable ID
func (c *Company) EntityID() ID { return c.id }

func (c *Company) Name() string { return c.name }

func (c *Company) SetName(name string, actx AuditContext) bool {
	return setField(&c.ChangeLog, "name", &c.name, strings.TrimSpace(name), actx)
}
