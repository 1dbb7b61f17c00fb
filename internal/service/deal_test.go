package service_test

import (
	"testing"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/service"
	"github.com/devrev/crmstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var actx = model.NewAuditContext(model.NewID(1), "test")

func newDealService(t *testing.T, refs service.DealRefs) (*service.DealService, *index.Recorder) {
	t.Helper()
	rec := &index.Recorder{}
	return service.NewDealService("deals", store.Options{Reporter: rec, Logger: zap.NewNop()}, refs), rec
}

func newDeal(id uint64, title string, total string) *model.Deal {
	return model.NewDeal(model.DealParams{
		ID:           model.NewID(id),
		Title:        title,
		Status:       model.DealStatusNew,
		Priority:     model.PriorityMedium,
		TotalAmount:  model.MustParseMoney(total),
		CreationDate: model.NewDate(2024, 1, 1),
	})
}

func TestDealService_FindByTotalAmount(t *testing.T) {
	svc, rec := newDealService(t, service.DealRefs{})
	first := newDeal(1, "First", "100.00")
	second := newDeal(2, "Second", "250.00")
	third := newDeal(3, "Third", "250.00")
	for _, d := range []*model.Deal{first, second, third} {
		require.True(t, svc.Add(d))
	}

	assert.Equal(t, []*model.Deal{second, third}, svc.FindByTotalAmount(model.MustParseMoney("250.00")))
	assert.Equal(t, []*model.Deal{first}, svc.FindByTotalAmount(model.MustParseMoney("100")))
	assert.Equal(t, []*model.Deal{first}, svc.FindByTotalAmountRange(model.MustParseMoney("0"), model.MustParseMoney("250.00")))
	assert.Empty(t, rec.Reports)
}

func TestDealService_TitlePrefix(t *testing.T) {
	svc, _ := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Acme Renewal", "1.00")
	require.True(t, svc.Add(d))

	assert.Equal(t, []*model.Deal{d}, svc.FindByTitle("acme"))
	assert.Equal(t, []*model.Deal{d}, svc.FindByTitle("acm"))
	assert.Empty(t, svc.FindByTitle("renewal"))
	assert.Empty(t, svc.FindByTitle(""))

	require.True(t, svc.ChangeTitle(d.EntityID(), "Globex Expansion", actx))
	assert.Empty(t, svc.FindByTitle("acme"))
	assert.Equal(t, []*model.Deal{d}, svc.FindByTitle("GLOBEX"))
	assert.Equal(t, 1, d.ChangeCount())
}

func TestDealService_StatusFallbackPair(t *testing.T) {
	svc, rec := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Deal", "1.00")
	require.True(t, svc.Add(d))
	id := d.EntityID()

	tests := []struct {
		name        string
		status      model.DealStatus
		other       string
		wantChanged bool
		wantTyped   []model.DealStatus
		wantOther   string
	}{
		{name: "typed to free text", status: model.DealStatusOther, other: "On hold", wantChanged: true, wantOther: "on hold"},
		{name: "free text to other free text", status: model.DealStatusOther, other: "Legal review", wantChanged: true, wantOther: "legal review"},
		{name: "same free text is a no-op", status: model.DealStatusOther, other: "Legal review", wantChanged: false, wantOther: "legal review"},
		{name: "free text to typed", status: model.DealStatusWon, wantChanged: true, wantTyped: []model.DealStatus{model.DealStatusWon}},
		{name: "invalid status is rejected", status: model.DealStatus("bogus"), wantChanged: false, wantTyped: []model.DealStatus{model.DealStatusWon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantChanged, svc.ChangeStatus(id, tt.status, tt.other, actx))

			for _, status := range []model.DealStatus{model.DealStatusNew, model.DealStatusWon} {
				if len(tt.wantTyped) > 0 && tt.wantTyped[0] == status {
					assert.Equal(t, []*model.Deal{d}, svc.FindByStatus(status))
				} else {
					assert.Empty(t, svc.FindByStatus(status))
				}
			}
			for _, text := range []string{"on hold", "legal review"} {
				if text == tt.wantOther {
					assert.Equal(t, []*model.Deal{d}, svc.FindByOtherStatus(text))
				} else {
					assert.Empty(t, svc.FindByOtherStatus(text))
				}
			}
		})
	}
	assert.Empty(t, rec.Reports)
	assert.Empty(t, svc.Verify())
}

func TestDealService_FreeTextLookupsTrimQuery(t *testing.T) {
	svc, _ := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Deal", "1.00")
	require.True(t, d.SetContractNumber(" C-7 ", actx))
	require.True(t, svc.Add(d))
	require.True(t, svc.ChangeStatus(d.EntityID(), model.DealStatusOther, "  On hold ", actx))

	assert.Equal(t, []*model.Deal{d}, svc.FindByOtherStatus(" on hold "))
	got, ok := svc.FindByContractNumber("C-7 ")
	require.True(t, ok)
	assert.Same(t, d, got)
}

func TestDealService_ContractNumberIsUnique(t *testing.T) {
	svc, _ := newDealService(t, service.DealRefs{})
	a := newDeal(1, "A", "1.00")
	b := newDeal(2, "B", "1.00")
	require.True(t, a.SetContractNumber("C-100", actx))
	require.True(t, b.SetContractNumber("C-100", actx))

	require.True(t, svc.Add(a))
	assert.False(t, svc.Add(b), "number held by another deal")

	c := newDeal(3, "C", "1.00")
	require.True(t, svc.Add(c))
	assert.False(t, svc.ChangeContractNumber(c.EntityID(), " C-100 ", actx))
	assert.True(t, svc.ChangeContractNumber(c.EntityID(), "C-200", actx))

	got, ok := svc.FindByContractNumber("C-200")
	require.True(t, ok)
	assert.Same(t, c, got)

	assert.True(t, svc.ChangeContractNumber(a.EntityID(), "C-101", actx))
	_, ok = svc.FindByContractNumber("C-100")
	assert.False(t, ok)
	assert.Empty(t, svc.Verify())
}

func TestDealService_PaymentsReindexPaidAmount(t *testing.T) {
	svc, _ := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Deal", "500.00")
	require.True(t, svc.Add(d))
	assert.Equal(t, []*model.Deal{d}, svc.FindByPaidAmount(model.MustParseMoney("0")))

	require.True(t, svc.AddPayment(d.EntityID(), model.Payment{Amount: model.MustParseMoney("120.50")}, actx))
	require.True(t, svc.AddPayment(d.EntityID(), model.Payment{Amount: model.MustParseMoney("79.50")}, actx))
	assert.False(t, svc.AddPayment(d.EntityID(), model.Payment{}, actx), "zero payment")

	assert.Empty(t, svc.FindByPaidAmount(model.MustParseMoney("0")))
	assert.Equal(t, []*model.Deal{d}, svc.FindByPaidAmount(model.MustParseMoney("200.00")))
	assert.Equal(t, []*model.Deal{d}, svc.FindByPaidAmountRange(model.MustParseMoney("100"), model.MustParseMoney("300")))
}

func TestDealService_DatesAndTags(t *testing.T) {
	svc, _ := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Deal", "1.00")
	require.True(t, svc.Add(d))
	id := d.EntityID()

	deadline := model.NewDate(2024, 3, 31)
	require.True(t, svc.ChangeDeadline(id, deadline, actx))
	require.True(t, svc.ChangeApprovalDate(id, model.NewDate(2024, 2, 1), actx))
	require.True(t, svc.AddTag(id, " VIP ", actx))
	assert.False(t, svc.AddTag(id, "vip", actx), "already tagged")

	assert.Equal(t, []*model.Deal{d}, svc.FindByDeadline(deadline))
	assert.Empty(t, svc.FindByDeadlineRange(model.NewDate(2024, 1, 1), deadline), "upper bound is exclusive")
	assert.Equal(t, []*model.Deal{d}, svc.FindByDeadlineRange(model.NewDate(2024, 1, 1), deadline.AddDays(1)))
	assert.Equal(t, []*model.Deal{d}, svc.FindByApprovalDateRange(model.NewDate(2024, 1, 1), model.NewDate(2024, 12, 31)))
	assert.Equal(t, []*model.Deal{d}, svc.FindByCreationDate(model.NewDate(2024, 1, 1)))
	assert.Equal(t, []*model.Deal{d}, svc.FindByTag("Vip"))

	require.True(t, svc.RemoveTag(id, "vip", actx))
	assert.Empty(t, svc.FindByTag("vip"))

	require.True(t, svc.ChangeDeadline(id, model.Date{}, actx))
	assert.Empty(t, svc.FindByDeadline(deadline))
	assert.Empty(t, svc.Verify())
}

func TestDealService_ManagerCascade(t *testing.T) {
	live := map[model.ID]bool{model.NewID(50): true, model.NewID(51): true}
	managers := service.ResolverFunc(func(id model.ID) bool { return live[id] })
	svc, rec := newDealService(t, service.DealRefs{Managers: managers})

	a := model.NewDeal(model.DealParams{ID: model.NewID(1), Title: "A", ManagerID: model.NewID(50)})
	b := model.NewDeal(model.DealParams{ID: model.NewID(2), Title: "B", ManagerID: model.NewID(50)})
	orphan := model.NewDeal(model.DealParams{ID: model.NewID(3), Title: "C", ManagerID: model.NewID(99)})
	for _, d := range []*model.Deal{a, b, orphan} {
		require.True(t, svc.Add(d))
	}
	assert.Equal(t, []*model.Deal{a, b}, svc.FindByManager(model.NewID(50)))
	assert.Empty(t, svc.FindByManager(model.NewID(99)), "expired reference is not indexed")

	delete(live, model.NewID(50))
	assert.Equal(t, 2, svc.RemoveManager(model.NewID(50)))
	assert.Empty(t, svc.FindByManager(model.NewID(50)))
	assert.Empty(t, svc.Verify())

	require.True(t, svc.ChangeManager(a.EntityID(), model.NewID(51), actx))
	assert.Equal(t, []*model.Deal{a}, svc.FindByManager(model.NewID(51)))
	require.True(t, svc.SoftRemove(b.EntityID()))
	assert.Empty(t, rec.Reports)
}

func TestDealService_SoftRemoveAndTombstones(t *testing.T) {
	svc, rec := newDealService(t, service.DealRefs{})
	d := newDeal(1, "Acme", "10.00")
	require.True(t, svc.Add(d))
	require.True(t, svc.AddTag(d.EntityID(), "vip", actx))

	require.True(t, svc.SoftRemove(d.EntityID()))
	assert.False(t, svc.SoftRemove(d.EntityID()))

	_, ok := svc.FindByID(d.EntityID())
	assert.False(t, ok)
	assert.Empty(t, svc.FindByTitle("acme"))
	assert.Empty(t, svc.FindByTag("vip"))
	assert.Empty(t, svc.FindByStatus(model.DealStatusNew))
	assert.Empty(t, svc.FindByTotalAmount(model.MustParseMoney("10.00")))
	assert.Equal(t, 1, svc.TombstoneLen())
	assert.Same(t, d, svc.Tombstones()[0].Entity)

	assert.False(t, svc.ChangeTitle(d.EntityID(), "Back", actx), "removed deals cannot change")
	assert.True(t, svc.HardRemove(0))
	assert.False(t, svc.HardRemove(0))
	assert.Empty(t, rec.Reports)
}
