package service

import (
	"strings"

	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
	"go.uber.org/zap"
)

// DealRefs resolves the parties a deal points to
type DealRefs struct {
	Managers Resolver
	Clients  Resolver
}

// DealService indexes deals
type DealService struct {
	base[*model.Deal]

	title       *store.PrefixField[*model.Deal]
	status      *store.ExactField[model.DealStatus, *model.Deal]
	otherStatus *store.PrefixField[*model.Deal]
	priority    *store.ExactField[model.Priority, *model.Deal]
	manager     *store.ExactField[model.ID, *model.Deal]
	client      *store.ExactField[model.ID, *model.Deal]
	contract    *store.UniqueField[string, *model.Deal]
	total       *store.OrderedField[model.Money, *model.Deal]
	paid        *store.OrderedField[model.Money, *model.Deal]
	created     *store.OrderedField[model.Date, *model.Deal]
	approved    *store.OrderedField[model.Date, *model.Deal]
	deadline    *store.OrderedField[model.Date, *model.Deal]
	tags        *store.ExactField[string, *model.Deal]
}

// NewDealService creates an empty deal store
func NewDealService(name string, opts store.Options, refs DealRefs) *DealService {
	s := &DealService{base: newBase[*model.Deal](name, opts)}

	s.title = store.NewPrefixField("title", func(d *model.Deal) []string {
		return store.Key(d.Title())
	})
	s.status = store.NewExactField("status", func(d *model.Deal) []model.DealStatus {
		return store.KeyIf(d.Status(), d.Status() != model.DealStatusOther)
	})
	s.otherStatus = store.NewPrefixField("other_status", func(d *model.Deal) []string {
		return store.KeyIf(d.OtherStatus(), d.Status() == model.DealStatusOther)
	})
	s.priority = store.NewExactField("priority", func(d *model.Deal) []model.Priority {
		return store.KeyIf(d.Priority(), d.Priority() != "")
	})
	s.manager = store.NewExactField("manager", func(d *model.Deal) []model.ID {
		return liveRef(refs.Managers, d.ManagerID())
	})
	s.client = store.NewExactField("client", func(d *model.Deal) []model.ID {
		return liveRef(refs.Clients, d.ClientID())
	})
	s.contract = store.NewUniqueField("contract_number", func(d *model.Deal) []string {
		return textKey(d.ContractNumber())
	})
	s.total = store.NewOrderedField("total_amount", model.CompareMoney, func(d *model.Deal) []model.Money {
		return store.Key(d.TotalAmount())
	})
	s.paid = store.NewOrderedField("paid_amount", model.CompareMoney, func(d *model.Deal) []model.Money {
		return store.Key(d.PaidAmount())
	})
	s.created = store.NewOrderedField("creation_date", model.CompareDate, func(d *model.Deal) []model.Date {
		return dateKey(d.CreationDate())
	})
	s.approved = store.NewOrderedField("approval_date", model.CompareDate, func(d *model.Deal) []model.Date {
		return dateKey(d.ApprovalDate())
	})
	s.deadline = store.NewOrderedField("deadline", model.CompareDate, func(d *model.Deal) []model.Date {
		return dateKey(d.Deadline())
	})
	s.tags = store.NewExactField("tags", func(d *model.Deal) []string {
		return d.Tags()
	})

	s.entities.Register(
		s.title, s.status, s.otherStatus, s.priority, s.manager, s.client, s.contract,
		s.total, s.paid, s.created, s.approved, s.deadline, s.tags,
	)
	return s
}

// Add inserts d unless its ID is taken or its contract number belongs to another deal
func (s *DealService) Add(d *model.Deal) bool {
	if d == nil {
		return false
	}
	if number := d.ContractNumber(); number != "" {
		if holder, taken := s.contract.Find(number); taken && holder != d {
			s.logger.Warn("Contract number already in use",
				zap.String("store", s.Name()),
				zap.String("deal_id", d.EntityID().String()),
				zap.String("holder_id", holder.EntityID().String()),
				zap.String("contract_number", number))
			return false
		}
	}
	return s.base.Add(d)
}

// FindByTitle returns deals whose title starts with prefix, ignoring case
func (s *DealService) FindByTitle(prefix string) []*model.Deal {
	return s.title.FindPrefix(prefix)
}

// FindByStatus returns deals with a typed status. Deals with DealStatusOther are
// found through FindByOtherStatus.
func (s *DealService) FindByStatus(status model.DealStatus) []*model.Deal {
	return s.status.Find(status)
}

// FindByOtherStatus returns deals whose free-text status equals text, ignoring case
func (s *DealService) FindByOtherStatus(text string) []*model.Deal {
	return s.otherStatus.FindExact(strings.TrimSpace(text))
}

// FindByPriority returns deals with the given priority
func (s *DealService) FindByPriority(p model.Priority) []*model.Deal {
	return s.priority.Find(p)
}

// FindByManager returns deals managed by id
func (s *DealService) FindByManager(id model.ID) []*model.Deal {
	return s.manager.Find(id)
}

// FindByClient returns deals signed with client id
func (s *DealService) FindByClient(id model.ID) []*model.Deal {
	return s.client.Find(id)
}

// FindByContractNumber returns the deal holding a contract number
func (s *DealService) FindByContractNumber(number string) (*model.Deal, bool) {
	return s.contract.Find(strings.TrimSpace(number))
}

// FindByTotalAmount returns deals with the given total amount
func (s *DealService) FindByTotalAmount(amount model.Money) []*model.Deal {
	return s.total.FindExact(amount)
}

// FindByTotalAmountRange returns deals with low <= total < high
func (s *DealService) FindByTotalAmountRange(low, high model.Money) []*model.Deal {
	return s.total.FindRange(low, high)
}

// FindByPaidAmount returns deals with the given paid amount
func (s *DealService) FindByPaidAmount(amount model.Money) []*model.Deal {
	return s.paid.FindExact(amount)
}

// FindByPaidAmountRange returns deals with low <= paid < high
func (s *DealService) FindByPaidAmountRange(low, high model.Money) []*model.Deal {
	return s.paid.FindRange(low, high)
}

// FindByCreationDate returns deals with the given creation date
func (s *DealService) FindByCreationDate(d model.Date) []*model.Deal {
	return s.created.FindExact(d)
}

// FindByCreationDateRange returns deals with low <= creation date < high
func (s *DealService) FindByCreationDateRange(low, high model.Date) []*model.Deal {
	return s.created.FindRange(low, high)
}

// FindByApprovalDate returns deals with the given approval date
func (s *DealService) FindByApprovalDate(d model.Date) []*model.Deal {
	return s.approved.FindExact(d)
}

// FindByApprovalDateRange returns deals with low <= approval date < high
func (s *DealService) FindByApprovalDateRange(low, high model.Date) []*model.Deal {
	return s.approved.FindRange(low, high)
}

// FindByDeadline returns deals with the given deadline
func (s *DealService) FindByDeadline(d model.Date) []*model.Deal {
	return s.deadline.FindExact(d)
}

// FindByDeadlineRange returns deals with low <= deadline < high
func (s *DealService) FindByDeadlineRange(low, high model.Date) []*model.Deal {
	return s.deadline.FindRange(low, high)
}

// FindByTag returns deals carrying tag
func (s *DealService) FindByTag(tag string) []*model.Deal {
	return s.tags.Find(model.NormalizeTag(tag))
}

// ChangeTitle renames a deal
func (s *DealService) ChangeTitle(id model.ID, title string, actx model.AuditContext) bool {
	return s.change("DealService.ChangeTitle", id, func(d *model.Deal) bool {
		return d.SetTitle(title, actx)
	}, s.title)
}

// ChangeStatus moves the deal between the typed and free-text status indices as needed
func (s *DealService) ChangeStatus(id model.ID, status model.DealStatus, other string, actx model.AuditContext) bool {
	return s.change("DealService.ChangeStatus", id, func(d *model.Deal) bool {
		return d.SetStatus(status, other, actx)
	}, s.status, s.otherStatus)
}

// ChangePriority sets the priority of a deal and reindexes it
func (s *DealService) ChangePriority(id model.ID, p model.Priority, actx model.AuditContext) bool {
	return s.change("DealService.ChangePriority", id, func(d *model.Deal) bool {
		return d.SetPriority(p, actx)
	}, s.priority)
}

// ChangeManager reassigns a deal. A manager that is not live is left unindexed.
func (s *DealService) ChangeManager(id, manager model.ID, actx model.AuditContext) bool {
	return s.change("DealService.ChangeManager", id, func(d *model.Deal) bool {
		return d.SetManager(manager, actx)
	}, s.manager)
}

// ChangeClient moves a deal to another client
func (s *DealService) ChangeClient(id, client model.ID, actx model.AuditContext) bool {
	return s.change("DealService.ChangeClient", id, func(d *model.Deal) bool {
		return d.SetClient(client, actx)
	}, s.client)
}

// ChangeContractNumber rejects a number already held by another deal
func (s *DealService) ChangeContractNumber(id model.ID, number string, actx model.AuditContext) bool {
	number = strings.TrimSpace(number)
	if holder, taken := s.contract.Find(number); taken && holder.EntityID() != id {
		s.logger.Warn("Contract number already in use",
			zap.String("store", s.Name()),
			zap.String("deal_id", id.String()),
			zap.String("holder_id", holder.EntityID().String()),
			zap.String("contract_number", number))
		return false
	}
	return s.change("DealService.ChangeContractNumber", id, func(d *model.Deal) bool {
		return d.SetContractNumber(number, actx)
	}, s.contract)
}

// ChangeTotalAmount sets the total amount of a deal and reindexes it
func (s *DealService) ChangeTotalAmount(id model.ID, amount model.Money, actx model.AuditContext) bool {
	return s.change("DealService.ChangeTotalAmount", id, func(d *model.Deal) bool {
		return d.SetTotalAmount(amount, actx)
	}, s.total)
}

// AddPayment records a payment and re-indexes the paid amount
func (s *DealService) AddPayment(id model.ID, p model.Payment, actx model.AuditContext) bool {
	return s.change("DealService.AddPayment", id, func(d *model.Deal) bool {
		return d.AddPayment(p, actx)
	}, s.paid)
}

func (s *DealService) ChangeApprovalDate(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("DealService.ChangeApprovalDate", id, func(d *model.Deal) bool {
		return d.SetApprovalDate(date, actx)
	}, s.approved)
}

// ChangeDeadline moves a deal to another deadline
func (s *DealService) ChangeDeadline(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("DealService.ChangeDeadline", id, func(d *model.Deal) bool {
		return d.SetDeadline(date, actx)
	}, s.deadline)
}

// AddTag tags a deal
func (s *DealService) AddTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("DealService.AddTag", id, func(d *model.Deal) bool {
		return d.AddTag(tag, actx)
	}, s.tags)
}

// RemoveTag removes a tag from a deal
func (s *DealService) RemoveTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("DealService.RemoveTag", id, func(d *model.Deal) bool {
		return d.RemoveTag(tag, actx)
	}, s.tags)
}

// RemoveManager drops the index bucket of a manager removed from the employee store
func (s *DealService) RemoveManager(manager model.ID) int {
	return s.drop(s.manager, manager)
}

// RemoveClient drops the index bucket of a client removed from the client store
func (s *DealService) RemoveClient(client model.ID) int {
	return s.drop(s.client, client)
}
