package seed

import (
	"fmt"
	"strings"

	"github.com/devrev/crmstore/internal/errors"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/service"
)

const (
	kindCompany     = "company"
	kindDeal        = "deal"
	kindTask        = "task"
	kindInteraction = "interaction"
)

var (
	kindClient           = string(model.PersonKindClient)
	kindInternalEmployee = string(model.PersonKindInternalEmployee)
	kindExternalEmployee = string(model.PersonKindExternalEmployee)
)

// registry tracks every ID in use, both live in the CRM and claimed by the
// fixture. IDs are unique across kinds.
type registry struct {
	kinds map[model.ID]string
	gen   *model.IDGenerator
}

func newRegistry(crm *service.CRM) *registry {
	r := &registry{
		kinds: make(map[model.ID]string),
		gen:   model.NewIDGenerator(model.NewID(1)),
	}
	live := []struct {
		kind string
		ids  []model.ID
	}{
		{kindCompany, crm.Companies.IDs()},
		{kindInternalEmployee, crm.InternalEmployees.IDs()},
		{kindClient, crm.Clients.IDs()},
		{kindExternalEmployee, crm.ExternalEmployees.IDs()},
		{kindDeal, crm.Deals.IDs()},
		{kindTask, crm.Tasks.IDs()},
		{kindInteraction, crm.Interactions.IDs()},
	}
	for _, l := range live {
		for _, id := range l.ids {
			r.kinds[id] = l.kind
			r.gen.Observe(id)
		}
	}
	return r
}

// claim registers an explicit ID. Empty input claims nothing.
func (r *registry) claim(l *Loader, kind, raw string) (model.ID, error) {
	id, err := l.validator.ValidateID("id", raw)
	if err != nil || id.IsZero() {
		return id, err
	}
	if _, taken := r.kinds[id]; taken {
		return model.ID{}, errors.DuplicateID(kind, id.String())
	}
	r.kinds[id] = kind
	r.gen.Observe(id)
	return id, nil
}

// fill assigns a generated ID to records that had none
func (r *registry) fill(kind string, id *model.ID) {
	if !id.IsZero() {
		return
	}
	*id = r.gen.Next()
	r.kinds[*id] = kind
}

// ref parses a reference and checks that it names an entity of one of the
// wanted kinds
func (r *registry) ref(l *Loader, ownerKind string, owner model.ID, field, raw string, want ...string) (model.ID, error) {
	id, err := l.validator.ValidateID(field, raw)
	if err != nil || id.IsZero() {
		return id, err
	}
	kind, ok := r.kinds[id]
	if !ok || !contains(want, kind) {
		return model.ID{}, errors.UnknownReference(ownerKind, owner.String(), field).
			WithDetail("ref", id.String())
	}
	return id, nil
}

func contains(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// recordError tags err with the record it came from
func recordError(err error, kind string, pos int) error {
	if se, ok := err.(*errors.StoreError); ok {
		return se.WithDetail("record", fmt.Sprintf("%s[%d]", kind, pos))
	}
	return errors.SeedFailed(fmt.Sprintf("%s[%d]", kind, pos), err)
}

// build claims IDs, checks references and constructs every entity
func (l *Loader) build(f *Fixture, crm *service.CRM) (*batch, error) {
	r := newRegistry(crm)

	companyIDs := make([]model.ID, len(f.Companies))
	personIDs := make([]model.ID, len(f.Persons))
	dealIDs := make([]model.ID, len(f.Deals))
	taskIDs := make([]model.ID, len(f.Tasks))
	interactionIDs := make([]model.ID, len(f.Interactions))

	// Explicit IDs first so generated ones never collide with them
	var err error
	for i, rec := range f.Companies {
		if companyIDs[i], err = r.claim(l, kindCompany, rec.ID); err != nil {
			return nil, recordError(err, "companies", i)
		}
	}
	for i, rec := range f.Persons {
		if personIDs[i], err = r.claim(l, rec.Kind, rec.ID); err != nil {
			return nil, recordError(err, "persons", i)
		}
	}
	for i, rec := range f.Deals {
		if dealIDs[i], err = r.claim(l, kindDeal, rec.ID); err != nil {
			return nil, recordError(err, "deals", i)
		}
	}
	for i, rec := range f.Tasks {
		if taskIDs[i], err = r.claim(l, kindTask, rec.ID); err != nil {
			return nil, recordError(err, "tasks", i)
		}
	}
	for i, rec := range f.Interactions {
		if interactionIDs[i], err = r.claim(l, kindInteraction, rec.ID); err != nil {
			return nil, recordError(err, "interactions", i)
		}
	}

	for i := range companyIDs {
		r.fill(kindCompany, &companyIDs[i])
	}
	for i, rec := range f.Persons {
		r.fill(rec.Kind, &personIDs[i])
	}
	for i := range dealIDs {
		r.fill(kindDeal, &dealIDs[i])
	}
	for i := range taskIDs {
		r.fill(kindTask, &taskIDs[i])
	}
	for i := range interactionIDs {
		r.fill(kindInteraction, &interactionIDs[i])
	}

	b := &batch{}
	for i, rec := range f.Companies {
		c, err := l.company(rec, companyIDs[i])
		if err != nil {
			return nil, recordError(err, "companies", i)
		}
		b.companies = append(b.companies, c)
	}
	for i, rec := range f.Persons {
		p, err := l.person(rec, personIDs[i], r)
		if err != nil {
			return nil, recordError(err, "persons", i)
		}
		b.persons = append(b.persons, p)
	}

	contracts := make(map[string]model.ID)
	for i, rec := range f.Deals {
		d, err := l.deal(rec, dealIDs[i], r)
		if err != nil {
			return nil, recordError(err, "deals", i)
		}
		if number := d.ContractNumber(); number != "" {
			_, live := crm.Deals.FindByContractNumber(number)
			if _, dup := contracts[number]; dup || live {
				err := errors.InvalidArgument(fmt.Sprintf("contract number '%s' is already taken", number), nil).
					WithDetail("field", "contract_number")
				return nil, recordError(err, "deals", i)
			}
			contracts[number] = d.EntityID()
		}
		b.deals = append(b.deals, d)
	}
	for i, rec := range f.Tasks {
		t, err := l.task(rec, taskIDs[i], r)
		if err != nil {
			return nil, recordError(err, "tasks", i)
		}
		b.tasks = append(b.tasks, t)
	}
	for i, rec := range f.Interactions {
		in, err := l.interaction(rec, interactionIDs[i], r)
		if err != nil {
			return nil, recordError(err, "interactions", i)
		}
		b.interactions = append(b.interactions, in)
	}
	return b, nil
}

func (l *Loader) company(rec CompanyRecord, id model.ID) (*model.Company, error) {
	if err := l.validator.ValidateName("name", rec.Name); err != nil {
		return nil, err
	}
	return model.NewCompany(id, rec.Name), nil
}

// inapplicable rejects variant fields set on a person of another kind
func inapplicable(kind string, fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) != "" {
			return errors.InvalidArgument(fmt.Sprintf("%s does not apply to %s", f[0], kind), nil).
				WithDetail("field", f[0])
		}
	}
	return nil
}

func (l *Loader) person(rec PersonRecord, id model.ID, r *registry) (*model.Person, error) {
	v := l.validator
	if err := v.ValidateName("name", rec.Name); err != nil {
		return nil, err
	}
	if err := v.ValidateText("surname", rec.Surname); err != nil {
		return nil, err
	}
	if err := v.ValidateEmail(rec.Email); err != nil {
		return nil, err
	}
	if err := v.ValidatePhone(rec.Phone); err != nil {
		return nil, err
	}

	kind := rec.Kind
	var details model.PersonDetails
	switch model.PersonKind(kind) {
	case model.PersonKindClient:
		if err := inapplicable(kind, [2]string{"manager_id", rec.ManagerID}, [2]string{"department", rec.Department},
			[2]string{"position", rec.Position}); err != nil {
			return nil, err
		}
		company, err := r.ref(l, kind, id, "company_id", rec.CompanyID, kindCompany)
		if err != nil {
			return nil, err
		}
		owner, err := r.ref(l, kind, id, "owner_id", rec.OwnerID, kindInternalEmployee)
		if err != nil {
			return nil, err
		}
		source := model.LeadSource(strings.TrimSpace(rec.LeadSource))
		if source != "" && !source.Valid() {
			return nil, errors.InvalidArgument(fmt.Sprintf("unknown lead source '%s'", source), nil).
				WithDetail("field", "lead_source")
		}
		details = model.ClientDetails{CompanyID: company, LeadSource: source, OwnerID: owner}

	case model.PersonKindInternalEmployee:
		if err := inapplicable(kind, [2]string{"company_id", rec.CompanyID}, [2]string{"lead_source", rec.LeadSource},
			[2]string{"owner_id", rec.OwnerID}); err != nil {
			return nil, err
		}
		manager, err := r.ref(l, kind, id, "manager_id", rec.ManagerID, kindInternalEmployee)
		if err != nil {
			return nil, err
		}
		if err := v.ValidateText("department", rec.Department); err != nil {
			return nil, err
		}
		if err := v.ValidateText("position", rec.Position); err != nil {
			return nil, err
		}
		details = model.InternalEmployeeDetails{ManagerID: manager, Department: rec.Department, Position: rec.Position}

	case model.PersonKindExternalEmployee:
		if err := inapplicable(kind, [2]string{"lead_source", rec.LeadSource}, [2]string{"owner_id", rec.OwnerID},
			[2]string{"manager_id", rec.ManagerID}, [2]string{"department", rec.Department}); err != nil {
			return nil, err
		}
		company, err := r.ref(l, kind, id, "company_id", rec.CompanyID, kindCompany)
		if err != nil {
			return nil, err
		}
		if err := v.ValidateText("position", rec.Position); err != nil {
			return nil, err
		}
		details = model.ExternalEmployeeDetails{CompanyID: company, Position: rec.Position}

	default:
		return nil, errors.InvalidArgument(fmt.Sprintf("unknown person kind '%s'", kind), nil).
			WithDetail("field", "kind")
	}

	return model.NewPerson(model.PersonParams{
		ID:      id,
		Name:    rec.Name,
		Surname: rec.Surname,
		Email:   rec.Email,
		Phone:   rec.Phone,
		Details: details,
	}), nil
}

// dates parses each named date, in order
func (l *Loader) dates(pairs ...[2]string) ([]model.Date, error) {
	out := make([]model.Date, len(pairs))
	for i, p := range pairs {
		d, err := l.validator.ValidateDate(p[0], p[1])
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (l *Loader) deal(rec DealRecord, id model.ID, r *registry) (*model.Deal, error) {
	v := l.validator
	if err := v.ValidateName("title", rec.Title); err != nil {
		return nil, err
	}
	status := model.DealStatus(rec.Status)
	if err := v.ValidateStatus("status", rec.Status, status.Valid(), rec.OtherStatus); err != nil {
		return nil, err
	}
	priority := model.Priority(rec.Priority)
	if err := v.ValidatePriority(priority); err != nil {
		return nil, err
	}
	manager, err := r.ref(l, kindDeal, id, "manager_id", rec.ManagerID, kindInternalEmployee)
	if err != nil {
		return nil, err
	}
	client, err := r.ref(l, kindDeal, id, "client_id", rec.ClientID, kindClient)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateText("contract_number", rec.ContractNumber); err != nil {
		return nil, err
	}
	total, err := v.ValidateMoney("total_amount", rec.TotalAmount)
	if err != nil {
		return nil, err
	}
	dates, err := l.dates(
		[2]string{"creation_date", rec.CreationDate},
		[2]string{"approval_date", rec.ApprovalDate},
		[2]string{"deadline", rec.Deadline})
	if err != nil {
		return nil, err
	}
	if err := v.ValidateTags(rec.Tags); err != nil {
		return nil, err
	}

	d := model.NewDeal(model.DealParams{
		ID:             id,
		Title:          rec.Title,
		Status:         status,
		OtherStatus:    rec.OtherStatus,
		Priority:       priority,
		ManagerID:      manager,
		ClientID:       client,
		ContractNumber: strings.TrimSpace(rec.ContractNumber),
		TotalAmount:    total,
		CreationDate:   dates[0],
		ApprovalDate:   dates[1],
		Deadline:       dates[2],
		Tags:           rec.Tags,
	})

	for _, p := range rec.Payments {
		amount, err := v.ValidateMoney("payments.amount", p.Amount)
		if err != nil {
			return nil, err
		}
		date, err := v.ValidateDate("payments.date", p.Date)
		if err != nil {
			return nil, err
		}
		if err := v.ValidateText("payments.note", p.Note); err != nil {
			return nil, err
		}
		d.AddPayment(model.Payment{Amount: amount, Date: date, Note: p.Note}, l.actx)
	}
	for _, doc := range rec.Documents {
		if err := v.ValidateName("documents.name", doc.Name); err != nil {
			return nil, err
		}
		if err := v.ValidateText("documents.uri", doc.URI); err != nil {
			return nil, err
		}
		d.AttachDocument(model.Document{Name: doc.Name, URI: doc.URI}, l.actx)
	}
	return d, nil
}

func (l *Loader) task(rec TaskRecord, id model.ID, r *registry) (*model.Task, error) {
	v := l.validator
	if err := v.ValidateName("title", rec.Title); err != nil {
		return nil, err
	}
	if err := v.ValidateNotes("description", rec.Description); err != nil {
		return nil, err
	}
	status := model.TaskStatus(rec.Status)
	if err := v.ValidateStatus("status", rec.Status, status.Valid(), rec.OtherStatus); err != nil {
		return nil, err
	}
	priority := model.Priority(rec.Priority)
	if err := v.ValidatePriority(priority); err != nil {
		return nil, err
	}
	owner, err := r.ref(l, kindTask, id, "owner_id", rec.OwnerID, kindInternalEmployee)
	if err != nil {
		return nil, err
	}
	deal, err := r.ref(l, kindTask, id, "deal_id", rec.DealID, kindDeal)
	if err != nil {
		return nil, err
	}
	dates, err := l.dates(
		[2]string{"creation_date", rec.CreationDate},
		[2]string{"start_date", rec.StartDate},
		[2]string{"deadline", rec.Deadline},
		[2]string{"end_date", rec.EndDate})
	if err != nil {
		return nil, err
	}
	if err := v.ValidateDateOrder("start_date", dates[1], "end_date", dates[3]); err != nil {
		return nil, err
	}
	if err := v.ValidateTags(rec.Tags); err != nil {
		return nil, err
	}

	return model.NewTask(model.TaskParams{
		ID:           id,
		Title:        rec.Title,
		Description:  rec.Description,
		Status:       status,
		OtherStatus:  rec.OtherStatus,
		Priority:     priority,
		OwnerID:      owner,
		DealID:       deal,
		CreationDate: dates[0],
		StartDate:    dates[1],
		Deadline:     dates[2],
		EndDate:      dates[3],
		Tags:         rec.Tags,
	}), nil
}

func (l *Loader) interaction(rec InteractionRecord, id model.ID, r *registry) (*model.Interaction, error) {
	v := l.validator
	if err := v.ValidateName("subject", rec.Subject); err != nil {
		return nil, err
	}
	kind := model.InteractionType(rec.Type)
	if err := v.ValidateStatus("type", rec.Type, kind.Valid(), rec.OtherType); err != nil {
		return nil, err
	}
	participants := make([]model.ID, 0, len(rec.ParticipantIDs))
	for _, raw := range rec.ParticipantIDs {
		p, err := r.ref(l, kindInteraction, id, "participant_ids", raw,
			kindClient, kindInternalEmployee, kindExternalEmployee)
		if err != nil {
			return nil, err
		}
		if !p.IsZero() {
			participants = append(participants, p)
		}
	}
	deal, err := r.ref(l, kindInteraction, id, "deal_id", rec.DealID, kindDeal)
	if err != nil {
		return nil, err
	}
	dates, err := l.dates(
		[2]string{"creation_date", rec.CreationDate},
		[2]string{"start_date", rec.StartDate},
		[2]string{"end_date", rec.EndDate})
	if err != nil {
		return nil, err
	}
	if err := v.ValidateDateOrder("start_date", dates[1], "end_date", dates[2]); err != nil {
		return nil, err
	}
	if err := v.ValidateNotes("notes", rec.Notes); err != nil {
		return nil, err
	}
	if err := v.ValidateTags(rec.Tags); err != nil {
		return nil, err
	}

	return model.NewInteraction(model.InteractionParams{
		ID:             id,
		Subject:        rec.Subject,
		Type:           kind,
		OtherType:      rec.OtherType,
		ParticipantIDs: participants,
		DealID:         deal,
		CreationDate:   dates[0],
		StartDate:      dates[1],
		EndDate:        dates[2],
		Notes:          rec.Notes,
		Tags:           rec.Tags,
	}), nil
}
