package service

import (
	"strings"

	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
)

// InteractionRefs resolves the parties an interaction points to
type InteractionRefs struct {
	Participants Resolver
	Deals        Resolver
}

// InteractionService indexes interactions
type InteractionService struct {
	base[*model.Interaction]

	subject      *store.PrefixField[*model.Interaction]
	kind         *store.ExactField[model.InteractionType, *model.Interaction]
	otherType    *store.PrefixField[*model.Interaction]
	participants *store.ExactField[model.ID, *model.Interaction]
	deal         *store.ExactField[model.ID, *model.Interaction]
	created      *store.OrderedField[model.Date, *model.Interaction]
	start        *store.OrderedField[model.Date, *model.Interaction]
	end          *store.OrderedField[model.Date, *model.Interaction]
	tags         *store.ExactField[string, *model.Interaction]
}

// NewInteractionService creates an empty interaction store
func NewInteractionService(name string, opts store.Options, refs InteractionRefs) *InteractionService {
	s := &InteractionService{base: newBase[*model.Interaction](name, opts)}

	s.subject = store.NewPrefixField("subject", func(in *model.Interaction) []string {
		return store.Key(in.Subject())
	})
	s.kind = store.NewExactField("type", func(in *model.Interaction) []model.InteractionType {
		return store.KeyIf(in.Type(), in.Type() != model.InteractionTypeOther)
	})
	s.otherType = store.NewPrefixField("other_type", func(in *model.Interaction) []string {
		return store.KeyIf(in.OtherType(), in.Type() == model.InteractionTypeOther)
	})
	s.participants = store.NewExactField("participants", func(in *model.Interaction) []model.ID {
		return liveRefs(refs.Participants, in.ParticipantIDs())
	})
	s.deal = store.NewExactField("deal", func(in *model.Interaction) []model.ID {
		return liveRef(refs.Deals, in.DealID())
	})
	s.created = store.NewOrderedField("creation_date", model.CompareDate, func(in *model.Interaction) []model.Date {
		return dateKey(in.CreationDate())
	})
	s.start = store.NewOrderedField("start_date", model.CompareDate, func(in *model.Interaction) []model.Date {
		return dateKey(in.StartDate())
	})
	s.end = store.NewOrderedField("end_date", model.CompareDate, func(in *model.Interaction) []model.Date {
		return dateKey(in.EndDate())
	})
	s.tags = store.NewExactField("tags", func(in *model.Interaction) []string {
		return in.Tags()
	})

	s.entities.Register(
		s.subject, s.kind, s.otherType, s.participants, s.deal,
		s.created, s.start, s.end, s.tags,
	)
	return s
}

// FindBySubject returns interactions whose subject starts with prefix, ignoring case
func (s *InteractionService) FindBySubject(prefix string) []*model.Interaction {
	return s.subject.FindPrefix(prefix)
}

// FindByType returns interactions with a typed kind. InteractionTypeOther is
// found through FindByOtherType.
func (s *InteractionService) FindByType(kind model.InteractionType) []*model.Interaction {
	return s.kind.Find(kind)
}

// FindByOtherType returns interactions whose free-text type equals text, ignoring case
func (s *InteractionService) FindByOtherType(text string) []*model.Interaction {
	return s.otherType.FindExact(strings.TrimSpace(text))
}

// FindByParticipant returns interactions id took part in
func (s *InteractionService) FindByParticipant(id model.ID) []*model.Interaction {
	return s.participants.Find(id)
}

// FindByDeal returns interactions about deal id
func (s *InteractionService) FindByDeal(id model.ID) []*model.Interaction {
	return s.deal.Find(id)
}

// FindByCreationDate returns interactions with the given creation date
func (s *InteractionService) FindByCreationDate(d model.Date) []*model.Interaction {
	return s.created.FindExact(d)
}

// FindByCreationDateRange returns interactions with low <= creation date < high
func (s *InteractionService) FindByCreationDateRange(low, high model.Date) []*model.Interaction {
	return s.created.FindRange(low, high)
}

// FindByStartDate returns interactions with the given start date
func (s *InteractionService) FindByStartDate(d model.Date) []*model.Interaction {
	return s.start.FindExact(d)
}

// FindByStartDateRange returns interactions with low <= start date < high
func (s *InteractionService) FindByStartDateRange(low, high model.Date) []*model.Interaction {
	return s.start.FindRange(low, high)
}

// FindByEndDate returns interactions with the given end date
func (s *InteractionService) FindByEndDate(d model.Date) []*model.Interaction {
	return s.end.FindExact(d)
}

// FindByEndDateRange returns interactions with low <= end date < high
func (s *InteractionService) FindByEndDateRange(low, high model.Date) []*model.Interaction {
	return s.end.FindRange(low, high)
}

// FindByTag returns interactions carrying tag
func (s *InteractionService) FindByTag(tag string) []*model.Interaction {
	return s.tags.Find(model.NormalizeTag(tag))
}

// ChangeSubject sets the subject line
func (s *InteractionService) ChangeSubject(id model.ID, subject string, actx model.AuditContext) bool {
	return s.change("InteractionService.ChangeSubject", id, func(in *model.Interaction) bool {
		return in.SetSubject(subject, actx)
	}, s.subject)
}

// ChangeType sets the type pair, as ChangeStatus does for deals
func (s *InteractionService) ChangeType(id model.ID, kind model.InteractionType, other string, actx model.AuditContext) bool {
	return s.change("InteractionService.ChangeType", id, func(in *model.Interaction) bool {
		return in.SetType(kind, other, actx)
	}, s.kind, s.otherType)
}

// AddParticipant adds a participant. Unknown participants are kept but not indexed.
func (s *InteractionService) AddParticipant(id, participant model.ID, actx model.AuditContext) bool {
	return s.change("InteractionService.AddParticipant", id, func(in *model.Interaction) bool {
		return in.AddParticipant(participant, actx)
	}, s.participants)
}

// RemoveParticipantFrom takes participant out of one interaction
func (s *InteractionService) RemoveParticipantFrom(id, participant model.ID, actx model.AuditContext) bool {
	return s.change("InteractionService.RemoveParticipantFrom", id, func(in *model.Interaction) bool {
		return in.RemoveParticipant(participant, actx)
	}, s.participants)
}

// ChangeDeal links an interaction to another deal
func (s *InteractionService) ChangeDeal(id, deal model.ID, actx model.AuditContext) bool {
	return s.change("InteractionService.ChangeDeal", id, func(in *model.Interaction) bool {
		return in.SetDeal(deal, actx)
	}, s.deal)
}

// ChangeStartDate sets the start date of an interaction and reindexes it
func (s *InteractionService) ChangeStartDate(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("InteractionService.ChangeStartDate", id, func(in *model.Interaction) bool {
		return in.SetStartDate(date, actx)
	}, s.start)
}

// ChangeEndDate sets when an interaction ended
func (s *InteractionService) ChangeEndDate(id model.ID, date model.Date, actx model.AuditContext) bool {
	return s.change("InteractionService.ChangeEndDate", id, func(in *model.Interaction) bool {
		return in.SetEndDate(date, actx)
	}, s.end)
}

// ChangeNotes updates unindexed notes
func (s *InteractionService) ChangeNotes(id model.ID, notes string, actx model.AuditContext) bool {
	in, ok := s.FindByID(id)
	return ok && in.SetNotes(notes, actx)
}

// AddTag tags a interaction
func (s *InteractionService) AddTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("InteractionService.AddTag", id, func(in *model.Interaction) bool {
		return in.AddTag(tag, actx)
	}, s.tags)
}

// RemoveTag removes a tag from a interaction
func (s *InteractionService) RemoveTag(id model.ID, tag string, actx model.AuditContext) bool {
	return s.change("InteractionService.RemoveTag", id, func(in *model.Interaction) bool {
		return in.RemoveTag(tag, actx)
	}, s.tags)
}

// RemoveParticipant drops the index bucket of a person removed elsewhere
func (s *InteractionService) RemoveParticipant(participant model.ID) int {
	return s.drop(s.participants, participant)
}

// RemoveDeal drops the index bucket of a deal removed from the deal store
func (s *InteractionService) RemoveDeal(deal model.ID) int {
	return s.drop(s.deal, deal)
}
