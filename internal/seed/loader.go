// Package seed loads YAML fixtures into a CRM.
//
// Secondary indices skip references whose target is not live at insertion
// time, so the loader adds referents before referrers: companies, internal
// employees (managers before their reports), clients, external employees,
// deals, tasks and finally interactions.
package seed

import (
	"fmt"

	"github.com/devrev/crmstore/internal/errors"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/service"
	"github.com/devrev/crmstore/internal/validation"
	"go.uber.org/zap"
)

// Result counts the entities added by a load
type Result struct {
	Companies    int
	Persons      int
	Deals        int
	Tasks        int
	Interactions int
}

// Total returns the number of entities added
func (r Result) Total() int {
	return r.Companies + r.Persons + r.Deals + r.Tasks + r.Interactions
}

// Loader validates fixtures and adds them to a CRM
type Loader struct {
	validator *validation.Validator
	logger    *zap.Logger
	actx      model.AuditContext
}

// NewLoader creates a loader with the default validator
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		validator: validation.NewValidator(),
		logger:    logger,
		actx:      model.NewAuditContext(model.ID{}, "seed"),
	}
}

// LoadFile reads path and loads it into crm
func (l *Loader) LoadFile(path string, crm *service.CRM) (Result, error) {
	f, err := ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return l.Load(f, crm)
}

// batch holds a fully validated fixture, ready to add
type batch struct {
	companies    []*model.Company
	persons      []*model.Person
	deals        []*model.Deal
	tasks        []*model.Task
	interactions []*model.Interaction
}

// Load validates every record before touching crm. A validation error leaves
// crm unchanged; an error while adding leaves the records added so far.
func (l *Loader) Load(f *Fixture, crm *service.CRM) (Result, error) {
	b, err := l.build(f, crm)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, c := range b.companies {
		if !crm.Companies.Add(c) {
			return res, addFailed("company", c.EntityID())
		}
		res.Companies++
	}

	persons, err := referentOrder(b.persons)
	if err != nil {
		return res, err
	}
	for _, p := range persons {
		if !crm.AddPerson(p) {
			return res, addFailed(string(p.Kind()), p.EntityID())
		}
		res.Persons++
	}

	for _, d := range b.deals {
		if !crm.Deals.Add(d) {
			return res, addFailed("deal", d.EntityID()).WithDetail("contract_number", d.ContractNumber())
		}
		res.Deals++
	}
	for _, t := range b.tasks {
		if !crm.Tasks.Add(t) {
			return res, addFailed("task", t.EntityID())
		}
		res.Tasks++
	}
	for _, in := range b.interactions {
		if !crm.Interactions.Add(in) {
			return res, addFailed("interaction", in.EntityID())
		}
		res.Interactions++
	}

	l.logger.Info("Fixture loaded",
		zap.Int("companies", res.Companies),
		zap.Int("persons", res.Persons),
		zap.Int("deals", res.Deals),
		zap.Int("tasks", res.Tasks),
		zap.Int("interactions", res.Interactions))
	return res, nil
}

func addFailed(kind string, id model.ID) *errors.StoreError {
	return errors.SeedFailed(fmt.Sprintf("store rejected %s %s", kind, id), nil).
		WithDetail("kind", kind).
		WithDetail("id", id.String())
}

// referentOrder puts internal employees first, each after its manager, then
// clients and external employees in fixture order
func referentOrder(persons []*model.Person) ([]*model.Person, error) {
	var employees, rest []*model.Person
	for _, p := range persons {
		if p.Kind() == model.PersonKindInternalEmployee {
			employees = append(employees, p)
		} else {
			rest = append(rest, p)
		}
	}

	pending := make(map[model.ID]bool, len(employees))
	for _, p := range employees {
		pending[p.EntityID()] = true
	}

	ordered := make([]*model.Person, 0, len(persons))
	for len(employees) > 0 {
		var next []*model.Person
		for _, p := range employees {
			if manager, _ := p.ManagerID(); !manager.IsZero() && pending[manager] {
				next = append(next, p)
				continue
			}
			ordered = append(ordered, p)
			delete(pending, p.EntityID())
		}
		if len(next) == len(employees) {
			return nil, errors.SeedFailed("internal employee managers form a cycle", nil).
				WithDetail("id", next[0].EntityID().String())
		}
		employees = next
	}
	return append(ordered, rest...), nil
}
