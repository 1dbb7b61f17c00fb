package service

import (
	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
	"go.uber.org/zap"
)

// Names labels each store in logs, metrics and reports
type Names struct {
	Companies         string
	Deals             string
	Tasks             string
	Interactions      string
	Clients           string
	InternalEmployees string
	ExternalEmployees string
}

// DefaultNames returns the store names used when none are configured
func DefaultNames() Names {
	return Names{
		Companies:         "companies",
		Deals:             "deals",
		Tasks:             "tasks",
		Interactions:      "interactions",
		Clients:           "clients",
		InternalEmployees: "internal_employees",
		ExternalEmployees: "external_employees",
	}
}

// Inspectable is the read-only surface every service shares
type Inspectable interface {
	Name() string
	Len() int
	TombstoneLen() int
	Verify() []index.Inconsistency
}

// CRM wires every entity service together. References between services are
// resolved by ID against the owning service, and removing a party through CRM
// drops the buckets other services keep for it.
type CRM struct {
	Companies         *CompanyService
	Clients           *PersonService
	InternalEmployees *PersonService
	ExternalEmployees *PersonService
	Deals             *DealService
	Tasks             *TaskService
	Interactions      *InteractionService

	logger *zap.Logger
}

// NewCRM creates empty services sharing opts
func NewCRM(names Names, opts store.Options) *CRM {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	c := &CRM{logger: opts.Logger}

	companies := ResolverFunc(func(id model.ID) bool { return c.Companies.Exists(id) })
	employees := ResolverFunc(func(id model.ID) bool { return c.InternalEmployees.Exists(id) })
	clients := ResolverFunc(func(id model.ID) bool { return c.Clients.Exists(id) })
	deals := ResolverFunc(func(id model.ID) bool { return c.Deals.Exists(id) })
	persons := ResolverFunc(c.personExists)

	c.Companies = NewCompanyService(names.Companies, opts)
	c.Clients = NewClientService(names.Clients, opts, PersonRefs{Companies: companies, Owners: employees})
	c.InternalEmployees = NewInternalEmployeeService(names.InternalEmployees, opts, PersonRefs{Managers: employees})
	c.ExternalEmployees = NewExternalEmployeeService(names.ExternalEmployees, opts, PersonRefs{Companies: companies})
	c.Deals = NewDealService(names.Deals, opts, DealRefs{Managers: employees, Clients: clients})
	c.Tasks = NewTaskService(names.Tasks, opts, TaskRefs{Owners: employees, Deals: deals})
	c.Interactions = NewInteractionService(names.Interactions, opts, InteractionRefs{Participants: persons, Deals: deals})
	return c
}

func (c *CRM) personExists(id model.ID) bool {
	return c.Clients.Exists(id) || c.InternalEmployees.Exists(id) || c.ExternalEmployees.Exists(id)
}

// Services returns every service in dependency order, referents first
func (c *CRM) Services() []Inspectable {
	return []Inspectable{
		c.Companies,
		c.InternalEmployees,
		c.Clients,
		c.ExternalEmployees,
		c.Deals,
		c.Tasks,
		c.Interactions,
	}
}

// AddPerson routes p to the service for its kind
func (c *CRM) AddPerson(p *model.Person) bool {
	if p == nil {
		return false
	}
	switch p.Kind() {
	case model.PersonKindClient:
		return c.Clients.Add(p)
	case model.PersonKindInternalEmployee:
		return c.InternalEmployees.Add(p)
	case model.PersonKindExternalEmployee:
		return c.ExternalEmployees.Add(p)
	}
	return false
}

// RemoveCompany soft-removes a company and drops its member buckets
func (c *CRM) RemoveCompany(id model.ID) bool {
	if !c.Companies.SoftRemove(id) {
		return false
	}
	c.Clients.RemoveCompany(id)
	c.ExternalEmployees.RemoveCompany(id)
	c.logRemoval(c.Companies.Name(), id)
	return true
}

// RemoveInternalEmployee soft-removes an employee and drops every bucket that
// refers to them as manager, owner or participant
func (c *CRM) RemoveInternalEmployee(id model.ID) bool {
	if !c.InternalEmployees.SoftRemove(id) {
		return false
	}
	c.InternalEmployees.RemoveManager(id)
	c.Clients.RemoveOwner(id)
	c.Deals.RemoveManager(id)
	c.Tasks.RemoveOwner(id)
	c.Interactions.RemoveParticipant(id)
	c.logRemoval(c.InternalEmployees.Name(), id)
	return true
}

// RemoveClient soft-removes a client and drops its deal and participant buckets
func (c *CRM) RemoveClient(id model.ID) bool {
	if !c.Clients.SoftRemove(id) {
		return false
	}
	c.Deals.RemoveClient(id)
	c.Interactions.RemoveParticipant(id)
	c.logRemoval(c.Clients.Name(), id)
	return true
}

// RemoveExternalEmployee soft-removes an external employee and drops its participant bucket
func (c *CRM) RemoveExternalEmployee(id model.ID) bool {
	if !c.ExternalEmployees.SoftRemove(id) {
		return false
	}
	c.Interactions.RemoveParticipant(id)
	c.logRemoval(c.ExternalEmployees.Name(), id)
	return true
}

// RemoveDeal soft-removes a deal and drops the task and interaction buckets for it
func (c *CRM) RemoveDeal(id model.ID) bool {
	if !c.Deals.SoftRemove(id) {
		return false
	}
	c.Tasks.RemoveDeal(id)
	c.Interactions.RemoveDeal(id)
	c.logRemoval(c.Deals.Name(), id)
	return true
}

func (c *CRM) logRemoval(storeName string, id model.ID) {
	c.logger.Info("Party removed with cascade",
		zap.String("store", storeName),
		zap.String("entity_id", id.String()))
}
