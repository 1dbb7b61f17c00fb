package service

import (
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
)

// CompanyService indexes companies by name and resolves company references
type CompanyService struct {
	base[*model.Company]

	name *store.PrefixField[*model.Company]
}

// NewCompanyService creates an empty company store
func NewCompanyService(name string, opts store.Options) *CompanyService {
	s := &CompanyService{base: newBase[*model.Company](name, opts)}
	s.name = store.NewPrefixField("name", func(c *model.Company) []string {
		return textKey(c.Name())
	})
	s.entities.Register(s.name)
	return s
}

// FindByName returns companies whose name starts with prefix, ignoring case
func (s *CompanyService) FindByName(prefix string) []*model.Company {
	return s.name.FindPrefix(prefix)
}

// ChangeName renames a company
func (s *CompanyService) ChangeName(id model.ID, name string, actx model.AuditContext) bool {
	return s.change("CompanyService.ChangeName", id, func(c *model.Company) bool {
		return c.SetName(name, actx)
	}, s.name)
}
