package service

import (
	"strings"

	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
	"go.uber.org/zap"
)

// PersonRefs resolves the parties a person points to
type PersonRefs struct {
	Companies Resolver
	Owners    Resolver
	Managers  Resolver
}

// PersonService indexes persons of one kind, or of every kind when built with
// NewPersonService. Variant-specific fields only ever hold persons whose details
// carry that field.
type PersonService struct {
	base[*model.Person]
	kind model.PersonKind

	name       *store.PrefixField[*model.Person]
	surname    *store.PrefixField[*model.Person]
	email      *store.PrefixField[*model.Person]
	phone      *store.PrefixField[*model.Person]
	company    *store.ExactField[model.ID, *model.Person]
	leadSource *store.ExactField[model.LeadSource, *model.Person]
	owner      *store.ExactField[model.ID, *model.Person]
	manager    *store.ExactField[model.ID, *model.Person]
	department *store.PrefixField[*model.Person]
	position   *store.PrefixField[*model.Person]
}

// NewClientService creates a store that accepts clients only
func NewClientService(name string, opts store.Options, refs PersonRefs) *PersonService {
	return newPersonService(name, opts, refs, model.PersonKindClient)
}

// NewInternalEmployeeService creates a store that accepts internal employees only
func NewInternalEmployeeService(name string, opts store.Options, refs PersonRefs) *PersonService {
	return newPersonService(name, opts, refs, model.PersonKindInternalEmployee)
}

// NewExternalEmployeeService creates a store that accepts external employees only
func NewExternalEmployeeService(name string, opts store.Options, refs PersonRefs) *PersonService {
	return newPersonService(name, opts, refs, model.PersonKindExternalEmployee)
}

// NewPersonService creates a store that accepts persons of any kind
func NewPersonService(name string, opts store.Options, refs PersonRefs) *PersonService {
	return newPersonService(name, opts, refs, "")
}

func newPersonService(name string, opts store.Options, refs PersonRefs, kind model.PersonKind) *PersonService {
	s := &PersonService{
		base: newBase[*model.Person](name, opts),
		kind: kind,
	}

	s.name = store.NewPrefixField("name", func(p *model.Person) []string {
		return textKey(p.Name())
	})
	s.surname = store.NewPrefixField("surname", func(p *model.Person) []string {
		return textKey(p.Surname())
	})
	s.email = store.NewPrefixField("email", func(p *model.Person) []string {
		return textKey(p.Email())
	})
	s.phone = store.NewPrefixField("phone", func(p *model.Person) []string {
		return textKey(p.Phone())
	})
	s.company = store.NewExactField("company", func(p *model.Person) []model.ID {
		id, ok := p.CompanyID()
		if !ok {
			return nil
		}
		return liveRef(refs.Companies, id)
	})
	s.leadSource = store.NewExactField("lead_source", func(p *model.Person) []model.LeadSource {
		v, ok := p.LeadSource()
		return store.KeyIf(v, ok)
	})
	s.owner = store.NewExactField("owner", func(p *model.Person) []model.ID {
		id, ok := p.OwnerID()
		if !ok {
			return nil
		}
		return liveRef(refs.Owners, id)
	})
	s.manager = store.NewExactField("manager", func(p *model.Person) []model.ID {
		id, ok := p.ManagerID()
		if !ok {
			return nil
		}
		return liveRef(refs.Managers, id)
	})
	s.department = store.NewPrefixField("department", func(p *model.Person) []string {
		v, ok := p.Department()
		return store.KeyIf(v, ok)
	})
	s.position = store.NewPrefixField("position", func(p *model.Person) []string {
		v, ok := p.Position()
		return store.KeyIf(v, ok)
	})

	s.entities.Register(
		s.name, s.surname, s.email, s.phone, s.company,
		s.leadSource, s.owner, s.manager, s.department, s.position,
	)
	return s
}

// Kind returns the accepted person kind, empty when any kind is accepted
func (s *PersonService) Kind() model.PersonKind {
	return s.kind
}

// Add inserts p when it is of the accepted kind
func (s *PersonService) Add(p *model.Person) bool {
	if p == nil {
		return false
	}
	if s.kind != "" && p.Kind() != s.kind {
		s.logger.Debug("Person of another kind rejected",
			zap.String("store", s.Name()),
			zap.String("person_id", p.EntityID().String()),
			zap.String("kind", string(p.Kind())),
			zap.String("accepted", string(s.kind)))
		return false
	}
	return s.base.Add(p)
}

// FindByName returns persons whose name starts with prefix, ignoring case
func (s *PersonService) FindByName(prefix string) []*model.Person {
	return s.name.FindPrefix(prefix)
}

// FindBySurname returns persons whose surname starts with prefix, ignoring case
func (s *PersonService) FindBySurname(prefix string) []*model.Person {
	return s.surname.FindPrefix(prefix)
}

// FindByEmail returns persons whose email starts with prefix
func (s *PersonService) FindByEmail(prefix string) []*model.Person {
	return s.email.FindPrefix(prefix)
}

// FindByPhone matches the normalized phone number, so "+1 (555)" finds "+1555..."
func (s *PersonService) FindByPhone(prefix string) []*model.Person {
	return s.phone.FindPrefix(model.NormalizePhone(prefix))
}

// FindByCompany returns persons working for company id
func (s *PersonService) FindByCompany(id model.ID) []*model.Person {
	return s.company.Find(id)
}

// FindByLeadSource returns clients acquired through source
func (s *PersonService) FindByLeadSource(source model.LeadSource) []*model.Person {
	return s.leadSource.Find(source)
}

// FindByOwner returns clients owned by employee id
func (s *PersonService) FindByOwner(id model.ID) []*model.Person {
	return s.owner.Find(id)
}

// FindByManager returns employees reporting to id
func (s *PersonService) FindByManager(id model.ID) []*model.Person {
	return s.manager.Find(id)
}

// FindByDepartment returns employees in a department, ignoring case
func (s *PersonService) FindByDepartment(department string) []*model.Person {
	return s.department.FindExact(strings.TrimSpace(department))
}

// FindByPosition returns employees holding a position, ignoring case
func (s *PersonService) FindByPosition(position string) []*model.Person {
	return s.position.FindExact(strings.TrimSpace(position))
}

// ChangeName sets the name of a person and reindexes it
func (s *PersonService) ChangeName(id model.ID, name string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeName", id, func(p *model.Person) bool {
		return p.SetName(name, actx)
	}, s.name)
}

// ChangeSurname sets the surname
func (s *PersonService) ChangeSurname(id model.ID, surname string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeSurname", id, func(p *model.Person) bool {
		return p.SetSurname(surname, actx)
	}, s.surname)
}

// ChangeEmail replaces the email address
func (s *PersonService) ChangeEmail(id model.ID, email string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeEmail", id, func(p *model.Person) bool {
		return p.SetEmail(email, actx)
	}, s.email)
}

func (s *PersonService) ChangePhone(id model.ID, phone string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangePhone", id, func(p *model.Person) bool {
		return p.SetPhone(phone, actx)
	}, s.phone)
}

// ChangeCompany is a no-op for internal employees
func (s *PersonService) ChangeCompany(id, company model.ID, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeCompany", id, func(p *model.Person) bool {
		return p.SetCompany(company, actx)
	}, s.company)
}

// ChangeOwner hands a client to another owner
func (s *PersonService) ChangeOwner(id, owner model.ID, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeOwner", id, func(p *model.Person) bool {
		return p.SetOwner(owner, actx)
	}, s.owner)
}

func (s *PersonService) ChangeLeadSource(id model.ID, source model.LeadSource, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeLeadSource", id, func(p *model.Person) bool {
		return p.SetLeadSource(source, actx)
	}, s.leadSource)
}

// ChangeManager sets the manager of an internal employee
func (s *PersonService) ChangeManager(id, manager model.ID, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeManager", id, func(p *model.Person) bool {
		return p.SetManager(manager, actx)
	}, s.manager)
}

// ChangeDepartment moves an internal employee to another department
func (s *PersonService) ChangeDepartment(id model.ID, department string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangeDepartment", id, func(p *model.Person) bool {
		return p.SetDepartment(department, actx)
	}, s.department)
}

// ChangePosition sets the position of an employee
func (s *PersonService) ChangePosition(id model.ID, position string, actx model.AuditContext) bool {
	return s.change("PersonService.ChangePosition", id, func(p *model.Person) bool {
		return p.SetPosition(position, actx)
	}, s.position)
}

// RemoveCompany drops the index bucket of a company removed elsewhere
func (s *PersonService) RemoveCompany(company model.ID) int {
	return s.drop(s.company, company)
}

// RemoveOwner drops the index bucket of an account owner removed elsewhere
func (s *PersonService) RemoveOwner(owner model.ID) int {
	return s.drop(s.owner, owner)
}

// RemoveManager drops the index bucket of a manager removed elsewhere
func (s *PersonService) RemoveManager(manager model.ID) int {
	return s.drop(s.manager, manager)
}
