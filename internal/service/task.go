package service

import (
	"strings"

	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
)

// TaskRefs resolves the parties a task points to
type TaskRefs struct {
	Owners Resolver
	Deals  Resolver
}

// TaskService indexes tasks
type TaskService struct {
	base[*model.Task]

	title       *store.PrefixField[*model.Task]
	status      *store.ExactField[model.TaskStatus, *model.Task]
	otherStatus *store.PrefixField[*model.Task]
	priority    *store.ExactField[model.Priority, *model.Task]
	owner       *store.ExactField[model.ID, *model.Task]
	deal        *store.ExactField[model.ID, *model.Task]
	created     *store.OrderedField[model.Date, *model.Task]
	start       *store.OrderedField[model.Date, *model.Task]
	deadline    *store.OrderedField[model.Date, *model.Task]
	end         *store.OrderedField[model.Date, *model.Task]
	tags        *store.ExactField[string, *model.Task]
}

// NewTaskService creates an empty task store
func NewTaskService(name string, opts store.Options, refs TaskRefs) *TaskService {
	s := &TaskService{base: newBase[*model.Task](name, opts)}

	s.title = store.NewPrefixField("title", func(t *model.Task) []string {
		return store.Key(t.Title())
	})
	s.status = store.NewExactField("status", func(t *model.Task) []model.TaskStatus {
		return store.KeyIf(t.Status(), t.Status() != model.TaskStatusOther)
	})
	s.otherStatus = store.NewPrefixField("other_status", func(t *model.Task) []string {
		return store.KeyIf(t.OtherStatus(), t.Status() == model.TaskStatusOther)
	})
	s.priority = store.NewExactField("priority", func(t *model.Task) []model.Priority {
		return store.KeyIf(t.Priority(), t.Priority() != "")
	})
	s.owner = store.NewExactField("owner", func(t *model.Task) []model.ID {
		return liveRef(refs.Owners, t.OwnerID())
	})
	s.deal = store.NewExactField("deal", func(t *model.Task) []model.ID {
		return liveRef(refs.Deals, t.DealID())
	})
	s.created = store.NewOrderedField("creation_date", model.CompareDate, func(t *model.Task) []model.Date {
		return dateKey(t.CreationDate())
	})
	s.start = store.NewOrderedField("start_date", model.CompareDate, func(t *model.Task) []model.Date {
		return dateKey(t.StartDate())
	})
	s.deadline = store.NewOrderedField("deadline", model.CompareDate, func(t *model.Task) []model.Date {
		return dateKey(t.Deadline())
	})
	s.end = store.NewOrderedField("end_date", model.CompareDate, func(t *model.Task) []model.Date {
		return dateKey(t.EndDate())
	})
	s.tags = store.NewExactField("tags", func(t *model.Task) []string {
		return t.Tags()
	})

	s.entities.Register(
		s.title, s.status, s.otherStatus, s.priority, s.owner, s.deal,
		s.created, s.start, s.deadline, s.end, s.tags,
	)
	return s
}

// FindByTitle returns tasks whose title starts with prefix, ignoring case
func (s *TaskService) FindByTitle(prefix string) []*model.Task {
	return s.title.FindPrefix(prefix)
}

// FindByStatus returns tasks with a typed status. Tasks with TaskStatusOther are
// found through FindByOtherStatus.
func (s *TaskService) FindByStatus(status model.TaskStatus) []*model.Task {
	return s.status.Find(status)
}

// FindByOtherStatus returns tasks whose free-text status equals text, ignoring case
func (s *TaskService) FindByOtherStatus(text string) []*model.Task {
	return s.otherStatus.FindExact(strings.TrimSpace(text))
}

// FindByPriority returns tasks with the given priority
func (s *TaskService) FindByPriority(p model.Priority) []*model.Task {
	return s.priority.Find(p)
}

// FindByOwner returns tasks assigned to id
func (s *TaskService) FindByOwner(id model.ID) []*model.Task {
	return s.owner.Find(id)
}

// FindByDeal returns tasks attached to deal id
func (s *TaskService) FindByDeal(id model.ID) []*model.Task {
	return s.deal.Find(id)
}

// FindByCreationDate returns tasks with the given creation date
func (s *TaskService) FindByCreationDate(d model.Date) []*model.Task {
	return s.created.FindExact(d)
}

// FindByCreationDateRange returns tasks with low <= creation date < high
func (s *TaskService) FindByCreationDateRange(low, high model.Date) []*model.Task {
	return s.created.FindRange(low, high)
}

// FindByStartDate returns tasks with the given start date
func (s *TaskService) FindByStartDate(d model.Date) []*model.Task {
	return s.start.FindExact(d)
}

// FindByStartDateRange returns tasks with low <= start date < high
func (s *TaskService) FindByStartDateRange(low, high model.Date) []*model.Task {
	return s.start.FindRange(low, high)
}

// FindByDeadline returns tasks with the given deadline
func (s *TaskService) FindByDeadline(d model.Date) []*model.Task {
	return s.deadline.FindExact(d)
}

// FindByDeadlineRange returns tasks due in [low, high)
func (s *TaskService) FindByDeadlineRange(low, high model.Date) []*model.Task {
	return s.deadline.FindRange(low, high)
}

// FindByEndDate returns tasks with the given end date
func (s *TaskService) FindByEndDate(d model.Date) []*model.Task {
	return s.end.FindExact(d)
}

// FindByEndDateRange returns tasks with low <= end date < high
func (s *TaskService) FindByEndDateRange(low, high model.Date) []*model.Task {
	return s.end.FindRange(low, high)
}

// FindByTag returns tasks carrying tag
func (s *TaskService) FindByTag(tag string) []*model.Task {
	return s.tags.Find(model.NormalizeTag(tag))
}

// ChangeTitle renames a task
func (s *TaskService) ChangeTitle(id model.ID, title string, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeTitle", id, func(t *model.Task) bool {
		return t.SetTitle(title, actx)
	}, s.title)
}

// ChangeStatus sets the status pair and moves the task between the typed and free-text indices
func (s *TaskService) ChangeStatus(id model.ID, status model.TaskStatus, other string, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeStatus", id, func(t *model.Task) bool {
		return t.SetStatus(status, other, actx)
	}, s.status, s.otherStatus)
}

// ChangePriority sets the priority of a task and reindexes it
func (s *TaskService) ChangePriority(id model.ID, p model.Priority, actx model.AuditContext) bool {
	return s.change("TaskService.ChangePriority", id, func(t *model.Task) bool {
		return t.SetPriority(p, actx)
	}, s.priority)
}

// ChangeOwner reassigns a task
func (s *TaskService) ChangeOwner(id, owner model.ID, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeOwner", id, func(t *model.Task) bool {
		return t.SetOwner(owner, actx)
	}, s.owner)
}

// ChangeDeal attaches a task to another deal
func (s *TaskService) ChangeDeal(id, deal model.ID, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeDeal", id, func(t *model.Task) bool {
		return t.SetDeal(deal, actx)
	}, s.deal)
}

// ChangeStartDate sets the start date of a task and reindexes it
func (s *TaskService) ChangeStartDate(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeStartDate", id, func(t *model.Task) bool {
		return t.SetStartDate(date, actx)
	}, s.start)
}

// ChangeDeadline sets the deadline of a task and reindexes it
func (s *TaskService) ChangeDeadline(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeDeadline", id, func(t *model.Task) bool {
		return t.SetDeadline(date, actx)
	}, s.deadline)
}

func (s *TaskService) ChangeEndDate(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("TaskService.ChangeEndDate", id, func(t *model.Task) bool {
		return t.SetEndDate(date, actx)
	}, s.end)
}

// AddTag tags a task. Tags are lower-cased.
func (s *TaskService) AddTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("TaskService.AddTag", id, func(t *model.Task) bool {
		return t.AddTag(tag, actx)
	}, s.tags)
}

// RemoveTag removes a tag from a task
func (s *TaskService) RemoveTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("TaskService.RemoveTag", id, func(t *model.Task) bool {
		return t.RemoveTag(tag, actx)
	}, s.tags)
}

// RemoveOwner drops the index bucket of an employee removed elsewhere
func (s *TaskService) RemoveOwner(owner model.ID) int {
	return s.drop(s.owner, owner)
}

// RemoveDeal drops the index bucket of a deal removed from the deal store
func (s *TaskService) RemoveDeal(deal model.ID) int {
	return s.drop(s.deal, deal)
}
