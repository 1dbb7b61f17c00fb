package store_test

import (
	"testing"
	"time"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	id     model.ID
	title  string
	status string
	code   string
	amount model.Money
	due    model.Date
	tags   []string
}

func (i *item) EntityID() model.ID { return i.id }

func (i *item) setStatus(status string) bool {
	if i.status == status {
		return false
	}
	i.status = status
	return true
}

type fixture struct {
	store    *store.Store[*item]
	reporter *index.Recorder
	title    *store.PrefixField[*item]
	status   *store.ExactField[string, *item]
	code     *store.UniqueField[string, *item]
	amount   *store.OrderedField[model.Money, *item]
	due      *store.OrderedField[model.Date, *item]
	tags     *store.ExactField[string, *item]
}

func newFixture(t *testing.T, opts store.Options) *fixture {
	t.Helper()
	f := &fixture{reporter: &index.Recorder{}}
	if opts.Reporter == nil {
		opts.Reporter = f.reporter
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	f.store = store.New[*item]("items", opts)

	f.title = store.NewPrefixField("title", func(i *item) []string { return store.Key(i.title) })
	f.status = store.NewExactField("status", func(i *item) []string { return store.KeyIf(i.status, i.status != "") })
	f.code = store.NewUniqueField("code", func(i *item) []string { return store.KeyIf(i.code, i.code != "") })
	f.amount = store.NewOrderedField("amount", model.CompareMoney, func(i *item) []model.Money { return store.Key(i.amount) })
	f.due = store.NewOrderedField("due", model.CompareDate, func(i *item) []model.Date { return store.KeyIf(i.due, !i.due.IsZero()) })
	f.tags = store.NewExactField("tags", func(i *item) []string { return i.tags })
	f.store.Register(f.title, f.status, f.code, f.amount, f.due, f.tags)
	return f
}

func newItem(id uint64, title string) *item {
	return &item{id: model.NewID(id), title: title, status: "open", amount: model.MustParseMoney("1.00")}
}

func TestStore_RoundTrip(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(7, "Acme Renewal")

	require.True(t, f.store.Add(e))

	got, ok := f.store.FindByID(model.NewID(7))
	require.True(t, ok)
	assert.Same(t, e, got)
	assert.True(t, f.store.Contains(model.NewID(7)))
	assert.Equal(t, 1, f.store.Len())
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	f := newFixture(t, store.Options{})

	tests := []struct {
		name string
		e    *item
	}{
		{name: "nil entity", e: nil},
		{name: "zero id", e: &item{title: "no id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, f.store.Add(tt.e))
			assert.Equal(t, 0, f.store.Len())
			assert.Equal(t, 0, f.title.Len())
		})
	}
}

func TestStore_AddIsIdempotent(t *testing.T) {
	f := newFixture(t, store.Options{})
	first := newItem(1, "Deal")
	first.tags = []string{"vip"}
	require.True(t, f.store.Add(first))

	assert.False(t, f.store.Add(first), "same entity twice")
	assert.False(t, f.store.Add(newItem(1, "Other")), "first write wins")

	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, []*item{first}, f.status.Find("open"))
	assert.Equal(t, []*item{first}, f.tags.Find("vip"))
	assert.Equal(t, []*item{first}, f.title.FindPrefix("deal"))
	assert.Empty(t, f.title.FindPrefix("other"))
}

func TestStore_SoftRemoveCleansEveryField(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(3, "Acme Renewal")
	e.code = "C-3"
	e.due = model.NewDate(2024, 5, 1)
	e.tags = []string{"vip", "q2"}
	require.True(t, f.store.Add(e))

	require.True(t, f.store.SoftRemove(e.id))

	_, ok := f.store.FindByID(e.id)
	assert.False(t, ok)
	assert.Empty(t, f.title.FindPrefix("acme"))
	assert.Empty(t, f.status.Find("open"))
	_, ok = f.code.Find("C-3")
	assert.False(t, ok)
	assert.Empty(t, f.amount.FindExact(e.amount))
	assert.Empty(t, f.due.FindExact(e.due))
	assert.Empty(t, f.tags.Find("vip"))
	assert.Empty(t, f.tags.Find("q2"))
	assert.Empty(t, f.reporter.Reports)
	assert.Empty(t, f.store.Verify())
}

func TestStore_SoftRemoveAbsentIsNoop(t *testing.T) {
	f := newFixture(t, store.Options{})
	assert.False(t, f.store.SoftRemove(model.NewID(99)))
	assert.Equal(t, 0, f.store.TombstoneLen())
}

func TestStore_TombstoneLifecycle(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, store.Options{Clock: func() time.Time { return at }})
	a, b := newItem(1, "a"), newItem(2, "b")
	require.True(t, f.store.Add(a))
	require.True(t, f.store.Add(b))

	require.True(t, f.store.SoftRemove(a.id))
	assert.Equal(t, 1, f.store.TombstoneLen())
	require.True(t, f.store.SoftRemove(b.id))
	assert.Equal(t, 2, f.store.TombstoneLen())

	tombstones := f.store.Tombstones()
	assert.Same(t, a, tombstones[0].Entity)
	assert.Equal(t, at, tombstones[0].RemovedAt)

	assert.False(t, f.store.HardRemove(2))
	assert.False(t, f.store.HardRemove(-1))
	assert.Equal(t, 2, f.store.TombstoneLen())

	assert.True(t, f.store.HardRemove(0))
	assert.Equal(t, 1, f.store.TombstoneLen())
	assert.Same(t, b, f.store.Tombstones()[0].Entity)
}

func TestStore_ChangeMovesBetweenKeys(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	require.True(t, f.store.Add(e))

	changed := f.store.Change("items.ChangeStatus", e.id, func(i *item) bool { return i.setStatus("won") }, f.status)

	require.True(t, changed)
	assert.Empty(t, f.status.Find("open"))
	assert.Equal(t, []*item{e}, f.status.Find("won"))
	assert.Equal(t, 1, f.status.Keys())
	assert.Empty(t, f.reporter.Reports)
}

func TestStore_ChangeWithoutEffectLeavesIndices(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	require.True(t, f.store.Add(e))

	changed := f.store.Change("items.ChangeStatus", e.id, func(i *item) bool { return i.setStatus("open") }, f.status)

	assert.False(t, changed)
	assert.Equal(t, []*item{e}, f.status.Find("open"))
	assert.Equal(t, 1, f.status.Len())
}

func TestStore_ChangeToAbsentKey(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	e.code = "C-1"
	require.True(t, f.store.Add(e))

	require.True(t, f.store.Change("items.ClearCode", e.id, func(i *item) bool {
		i.code = ""
		return true
	}, f.code))

	_, ok := f.code.Find("C-1")
	assert.False(t, ok)
	assert.Equal(t, 0, f.code.Len())
	assert.Empty(t, f.store.Verify())
}

func TestStore_ChangeMultiValuedField(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	e.tags = []string{"a", "b"}
	require.True(t, f.store.Add(e))

	require.True(t, f.store.Change("items.Retag", e.id, func(i *item) bool {
		i.tags = []string{"b", "c"}
		return true
	}, f.tags))

	assert.Empty(t, f.tags.Find("a"))
	assert.Equal(t, []*item{e}, f.tags.Find("b"))
	assert.Equal(t, []*item{e}, f.tags.Find("c"))
	assert.Equal(t, 2, f.tags.Len())
}

func TestStore_ChangeAllFieldsByDefault(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "Old title")
	require.True(t, f.store.Add(e))

	require.True(t, f.store.Change("items.Rewrite", e.id, func(i *item) bool {
		i.title = "New title"
		i.status = "done"
		return true
	}))

	assert.Equal(t, []*item{e}, f.title.FindPrefix("new"))
	assert.Empty(t, f.title.FindPrefix("old"))
	assert.Equal(t, []*item{e}, f.status.Find("done"))
	assert.Empty(t, f.store.Verify())
}

func TestStore_ChangeAbsentIDIsNoop(t *testing.T) {
	f := newFixture(t, store.Options{})
	called := false
	assert.False(t, f.store.Change("items.ChangeStatus", model.NewID(5), func(*item) bool {
		called = true
		return true
	}))
	assert.False(t, called)
}

func TestStore_EqualAmountsKeepInsertionOrder(t *testing.T) {
	f := newFixture(t, store.Options{})
	amounts := []string{"100.00", "250.00", "250.00"}
	var items []*item
	for i, a := range amounts {
		e := newItem(uint64(i+1), "deal")
		e.amount = model.MustParseMoney(a)
		require.True(t, f.store.Add(e))
		items = append(items, e)
	}

	assert.Equal(t, []*item{items[1], items[2]}, f.amount.FindExact(model.MustParseMoney("250.00")))
}

func TestStore_DateRangeIsHalfOpen(t *testing.T) {
	f := newFixture(t, store.Options{})
	d1, d2, d3 := model.NewDate(2024, 1, 10), model.NewDate(2024, 1, 20), model.NewDate(2024, 1, 30)
	var items []*item
	for i, d := range []model.Date{d1, d2, d3} {
		e := newItem(uint64(i+1), "t")
		e.due = d
		require.True(t, f.store.Add(e))
		items = append(items, e)
	}

	assert.Equal(t, []*item{items[0], items[1]}, f.due.FindRange(d1, d3))
	assert.Equal(t, items, f.due.FindFrom(d1))
}

func TestStore_PrefixSearchIgnoresCase(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "Acme Renewal")
	require.True(t, f.store.Add(e))

	assert.Equal(t, []*item{e}, f.title.FindPrefix("acme"))
	assert.Equal(t, []*item{e}, f.title.FindPrefix("acm"))
	assert.Empty(t, f.title.FindPrefix("renewal"))
	assert.Empty(t, f.title.FindPrefix(""))
	assert.Equal(t, []*item{e}, f.title.FindExact("ACME RENEWAL"))
}

func TestStore_IDsAreNumericallyOrdered(t *testing.T) {
	f := newFixture(t, store.Options{})
	for _, id := range []uint64{10, 2, 33, 1} {
		require.True(t, f.store.Add(newItem(id, "x")))
	}

	assert.Equal(t, []model.ID{model.NewID(1), model.NewID(2), model.NewID(10), model.NewID(33)}, f.store.IDs())

	var seen []model.ID
	for id, e := range f.store.All() {
		assert.Equal(t, id, e.EntityID())
		seen = append(seen, id)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []model.ID{model.NewID(1), model.NewID(2)}, seen)
}

func TestStore_RegisterIndexesExistingEntities(t *testing.T) {
	s := store.New[*item]("late", store.Options{})
	e := newItem(1, "Beta")
	require.True(t, s.Add(e))

	title := store.NewPrefixField("title", func(i *item) []string { return store.Key(i.title) })
	s.Register(title)

	assert.Equal(t, []*item{e}, title.FindPrefix("be"))
	assert.Len(t, s.Fields(), 1)
}

func TestStore_RegisterRejectsMisuse(t *testing.T) {
	s := store.New[*item]("items", store.Options{})
	title := store.NewPrefixField("title", func(i *item) []string { return store.Key(i.title) })
	s.Register(title)

	assert.Panics(t, func() { s.Register(title) }, "already bound")
	assert.Panics(t, func() {
		s.Register(store.NewExactField("title", func(i *item) []string { return store.Key(i.status) }))
	}, "duplicate name")

	other := store.New[*item]("other", store.Options{})
	assert.Panics(t, func() { other.Register(title) }, "bound to another store")
}

func TestStore_VerifyDetectsDrift(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	require.True(t, f.store.Add(e))

	// mutate behind the store's back
	e.status = "won"

	reports := f.store.Verify()
	assert.ElementsMatch(t, []index.Inconsistency{
		{Location: "items.Verify", EntityID: e.id, Index: "status", Reason: index.ReasonMissing},
		{Location: "items.Verify", EntityID: e.id, Index: "status", Reason: index.ReasonStale},
	}, reports)
	assert.Empty(t, f.reporter.Reports, "verify never reports through the reporter")

	// removal works from the keys the entity was indexed under
	require.True(t, f.store.SoftRemove(e.id))
	assert.Empty(t, f.reporter.Reports)
	assert.Empty(t, f.status.Find("open"))
	assert.Empty(t, f.store.Verify())
}

func TestStore_VerifyDetectsUniqueOverwrite(t *testing.T) {
	f := newFixture(t, store.Options{})
	a, b := newItem(1, "a"), newItem(2, "b")
	a.code, b.code = "dup", "dup"
	require.True(t, f.store.Add(a))
	require.True(t, f.store.Add(b))

	reports := f.store.Verify()
	require.Len(t, reports, 1)
	assert.Equal(t, a.id, reports[0].EntityID)
	assert.Equal(t, "code", reports[0].Index)
	assert.Equal(t, index.ReasonMissing, reports[0].Reason)

	// the displaced entity no longer holds its key, so removing it is reported
	require.True(t, f.store.SoftRemove(a.id))
	require.Len(t, f.reporter.Reports, 1)
	assert.Equal(t, index.Inconsistency{
		Location: "items.SoftRemove",
		EntityID: a.id,
		Index:    "code",
		Reason:   index.ReasonMissing,
	}, f.reporter.Reports[0])

	held, ok := f.code.Find("dup")
	require.True(t, ok)
	assert.Same(t, b, held)
}

func TestStore_RemovalUsesIndexedKeys(t *testing.T) {
	f := newFixture(t, store.Options{})
	live := map[string]bool{"owner-1": true}
	owner := store.NewExactField("owner", func(i *item) []string {
		return store.KeyIf(i.code, live[i.code])
	})
	f.store.Register(owner)

	indexed, skipped := newItem(1, "a"), newItem(2, "b")
	indexed.code, skipped.code = "owner-1", "owner-2"
	require.True(t, f.store.Add(indexed))
	require.True(t, f.store.Add(skipped))
	assert.Empty(t, owner.Find("owner-2"))

	// the extractor now answers the other way for both
	live["owner-1"], live["owner-2"] = false, true

	require.True(t, f.store.SoftRemove(indexed.id))
	require.True(t, f.store.SoftRemove(skipped.id))
	assert.Empty(t, owner.Find("owner-1"))
	assert.Empty(t, owner.Find("owner-2"))
	assert.Empty(t, f.reporter.Reports)
	assert.Empty(t, f.store.Verify())
}

func TestStore_ChangeAfterDrop(t *testing.T) {
	f := newFixture(t, store.Options{})
	e := newItem(1, "x")
	e.tags = []string{"a", "b"}
	require.True(t, f.store.Add(e))

	assert.Equal(t, 1, f.tags.Drop("a"))
	require.True(t, f.store.Change("items.Retag", e.id, func(i *item) bool {
		i.tags = []string{"c"}
		return true
	}, f.tags))

	assert.Empty(t, f.tags.Find("b"))
	assert.Equal(t, []*item{e}, f.tags.Find("c"))
	assert.Empty(t, f.reporter.Reports, "a dropped key is not looked for again")
}

func TestStore_Metrics(t *testing.T) {
	m := metrics.NewMetrics(metrics.DefaultNamespace, prometheus.NewRegistry())
	f := newFixture(t, store.Options{Metrics: m})
	a, b := newItem(1, "Acme"), newItem(2, "Acme two")
	require.True(t, f.store.Add(a))
	require.True(t, f.store.Add(b))
	require.True(t, f.store.SoftRemove(a.id))
	require.True(t, f.store.Change("items.ChangeStatus", b.id, func(i *item) bool { return i.setStatus("won") }, f.status))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EntitiesTotal.WithLabelValues("items")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TombstonesTotal.WithLabelValues("items")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OperationsTotal.WithLabelValues("items", store.OpAdd)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OperationsTotal.WithLabelValues("items", store.OpSoftRemove)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OperationsTotal.WithLabelValues("items", store.OpChange)))

	require.True(t, f.store.HardRemove(0))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.TombstonesTotal.WithLabelValues("items")))

	_ = f.title.FindPrefix("acme")
	assert.Equal(t, len(f.store.Fields()), testutil.CollectAndCount(m.QueryResults), "one series per registered field")
}
