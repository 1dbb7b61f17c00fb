package store

import (
	"slices"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Field binds one entity attribute to one secondary index. A field is usable
// once registered with exactly one Store.
type Field[E index.Entity] interface {
	Name() string

	bound() bool
	bind(b binder)
	insert(e E)
	remove(location string, e E)
	track(e E) func(location string)
	audit(location string, order []E, live map[model.ID]E) []index.Inconsistency
}

// binder carries what a field needs from its store at registration
type binder struct {
	store    string
	reporter index.Reporter
	metrics  *metrics.Metrics
}

// keyedIndex is the surface shared by every index kind
type keyedIndex[K any, E index.Entity] interface {
	Insert(key K, e E)
	RemoveSafely(location string, key K, e E) bool
	Contains(key K, e E) bool
	Each(fn func(key K, e E) bool)
}

// Key yields a single key
func Key[K any](k K) []K {
	return []K{k}
}

// KeyIf yields k only when ok is true
func KeyIf[K any](k K, ok bool) []K {
	if !ok {
		return nil
	}
	return []K{k}
}

// binding remembers the keys each live entity was inserted under. Removal
// and change start from those keys, not from a fresh extraction.
type binding[K any, E index.Entity] struct {
	name    string
	keys    func(E) []K
	equal   func(a, b K) bool
	idx     keyedIndex[K, E]
	held    map[model.ID][]K
	results prometheus.Observer
}

// Name returns the field name, also used as the index name in reports
func (b *binding[K, E]) Name() string {
	return b.name
}

func (b *binding[K, E]) bound() bool {
	return b.idx != nil
}

func (b *binding[K, E]) attach(idx keyedIndex[K, E], bd binder) {
	b.idx = idx
	b.held = make(map[model.ID][]K)
	if bd.metrics != nil {
		b.results = bd.metrics.QueryResults.WithLabelValues(bd.store, b.name)
	}
}

func (b *binding[K, E]) observe(n int) {
	if b.results != nil {
		b.results.Observe(float64(n))
	}
}

func (b *binding[K, E]) insert(e E) {
	keys := b.keys(e)
	for _, k := range keys {
		b.idx.Insert(k, e)
	}
	b.record(e.EntityID(), keys)
}

func (b *binding[K, E]) remove(location string, e E) {
	id := e.EntityID()
	for _, k := range b.held[id] {
		b.idx.RemoveSafely(location, k, e)
	}
	delete(b.held, id)
}

// track captures the keys e is held under now. The returned func moves e from
// keys it lost to keys it gained since the capture.
func (b *binding[K, E]) track(e E) func(location string) {
	id := e.EntityID()
	before := b.held[id]
	return func(location string) {
		after := b.keys(e)
		for _, k := range before {
			if !b.holds(after, k) {
				b.idx.RemoveSafely(location, k, e)
			}
		}
		for _, k := range after {
			if !b.holds(before, k) {
				b.idx.Insert(k, e)
			}
		}
		b.record(id, after)
	}
}

func (b *binding[K, E]) record(id model.ID, keys []K) {
	if len(keys) == 0 {
		delete(b.held, id)
		return
	}
	b.held[id] = slices.Clone(keys)
}

// forget drops key from the keys recorded for id
func (b *binding[K, E]) forget(id model.ID, key K) {
	keys := slices.DeleteFunc(b.held[id], func(k K) bool { return b.equal(k, key) })
	b.record(id, keys)
}

func (b *binding[K, E]) holds(keys []K, k K) bool {
	for _, candidate := range keys {
		if b.equal(candidate, k) {
			return true
		}
	}
	return false
}

func (b *binding[K, E]) audit(location string, order []E, live map[model.ID]E) []index.Inconsistency {
	var out []index.Inconsistency
	report := func(id model.ID, reason index.Reason) {
		out = append(out, index.Inconsistency{
			Location: location,
			EntityID: id,
			Index:    b.name,
			Reason:   reason,
		})
	}

	for _, e := range order {
		for _, k := range b.keys(e) {
			if !b.idx.Contains(k, e) {
				report(e.EntityID(), index.ReasonMissing)
			}
		}
	}

	b.idx.Each(func(k K, e E) bool {
		if held, ok := live[e.EntityID()]; !ok || held != e {
			report(e.EntityID(), index.ReasonOrphan)
			return true
		}
		if !b.holds(b.keys(e), k) {
			report(e.EntityID(), index.ReasonStale)
		}
		return true
	})
	return out
}

// ExactField indexes a hashable key, many entities per key
type ExactField[K comparable, E index.Entity] struct {
	binding[K, E]
	exact *index.Exact[K, E]
}

// NewExactField declares a one-to-many hash field
func NewExactField[K comparable, E index.Entity](name string, keys func(E) []K) *ExactField[K, E] {
	return &ExactField[K, E]{
		binding: binding[K, E]{name: name, keys: keys, equal: func(a, b K) bool { return a == b }},
	}
}

func (f *ExactField[K, E]) bind(bd binder) {
	f.exact = index.NewExact[K, E](f.name, bd.reporter)
	f.attach(f.exact, bd)
}

// Find returns the entities held under key, in insertion order
func (f *ExactField[K, E]) Find(key K) []E {
	out := f.exact.Find(key)
	f.observe(len(out))
	return out
}

// Drop erases the bucket for key without touching the primary map
func (f *ExactField[K, E]) Drop(key K) int {
	for _, e := range f.exact.Find(key) {
		f.forget(e.EntityID(), key)
	}
	return f.exact.DropKey(key)
}

// Keys returns the number of distinct keys
func (f *ExactField[K, E]) Keys() int {
	return f.exact.Keys()
}

// Len returns the number of entries
func (f *ExactField[K, E]) Len() int {
	return f.exact.Len()
}

// UniqueField indexes a hashable key held by at most one entity
type UniqueField[K comparable, E index.Entity] struct {
	binding[K, E]
	unique *index.Unique[K, E]
}

// NewUniqueField declares a one-to-one hash field. Collisions must be rejected
// by the caller before the entity is added or changed.
func NewUniqueField[K comparable, E index.Entity](name string, keys func(E) []K) *UniqueField[K, E] {
	return &UniqueField[K, E]{
		binding: binding[K, E]{name: name, keys: keys, equal: func(a, b K) bool { return a == b }},
	}
}

func (f *UniqueField[K, E]) bind(bd binder) {
	f.unique = index.NewUnique[K, E](f.name, bd.reporter)
	f.attach(f.unique, bd)
}

// Find returns the entity holding key
func (f *UniqueField[K, E]) Find(key K) (E, bool) {
	e, ok := f.unique.Find(key)
	if ok {
		f.observe(1)
	} else {
		f.observe(0)
	}
	return e, ok
}

// Len returns the number of keys
func (f *UniqueField[K, E]) Len() int {
	return f.unique.Len()
}

// OrderedField indexes an orderable key with exact and range lookups
type OrderedField[K any, E index.Entity] struct {
	binding[K, E]
	ordered *index.Ordered[K, E]
	cmp     func(a, b K) int
}

// NewOrderedField declares a sorted field ordered by cmp
func NewOrderedField[K any, E index.Entity](name string, cmp func(a, b K) int, keys func(E) []K) *OrderedField[K, E] {
	return &OrderedField[K, E]{
		binding: binding[K, E]{name: name, keys: keys, equal: func(a, b K) bool { return cmp(a, b) == 0 }},
		cmp:     cmp,
	}
}

func (f *OrderedField[K, E]) bind(bd binder) {
	f.ordered = index.NewOrdered[K, E](f.name, f.cmp, bd.reporter)
	f.attach(f.ordered, bd)
}

// FindExact returns entities whose key equals key, in insertion order
func (f *OrderedField[K, E]) FindExact(key K) []E {
	out := f.ordered.FindExact(key)
	f.observe(len(out))
	return out
}

// FindRange returns entities with low <= key < high
func (f *OrderedField[K, E]) FindRange(low, high K) []E {
	out := f.ordered.FindRange(low, high)
	f.observe(len(out))
	return out
}

// FindFrom returns entities with key >= low
func (f *OrderedField[K, E]) FindFrom(low K) []E {
	out := f.ordered.FindFrom(low)
	f.observe(len(out))
	return out
}

// Len returns the number of entries
func (f *OrderedField[K, E]) Len() int {
	return f.ordered.Len()
}

// PrefixField indexes a case-insensitive string with starts-with lookups
type PrefixField[E index.Entity] struct {
	binding[string, E]
	prefix *index.Prefix[E]
}

// NewPrefixField declares a lower-cased string field
func NewPrefixField[E index.Entity](name string, keys func(E) []string) *PrefixField[E] {
	return &PrefixField[E]{
		binding: binding[string, E]{name: name, keys: keys, equal: func(a, b string) bool {
			return index.Normalize(a) == index.Normalize(b)
		}},
	}
}

func (f *PrefixField[E]) bind(bd binder) {
	f.prefix = index.NewPrefix[E](f.name, bd.reporter)
	f.attach(f.prefix, bd)
}

// FindPrefix returns entities whose value starts with query, ignoring case
func (f *PrefixField[E]) FindPrefix(query string) []E {
	out := f.prefix.FindPrefix(query)
	f.observe(len(out))
	return out
}

// FindExact returns entities whose value equals value, ignoring case
func (f *PrefixField[E]) FindExact(value string) []E {
	out := f.prefix.FindExact(value)
	f.observe(len(out))
	return out
}

// Len returns the number of entries
func (f *PrefixField[E]) Len() int {
	return f.prefix.Len()
}
