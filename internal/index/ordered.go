package index

import "github.com/devrev/crmstore/internal/storage/skiplist"

// Ordered maps an orderable key to entities and answers exact and range queries.
// Entities with equal keys are kept in insertion order.
type Ordered[K any, E Entity] struct {
	name     string
	cmp      func(a, b K) int
	data     *skiplist.SkipList[K, E]
	reporter Reporter
}

// NewOrdered creates an empty ordered index using cmp
func NewOrdered[K any, E Entity](name string, cmp func(a, b K) int, reporter Reporter) *Ordered[K, E] {
	return &Ordered[K, E]{
		name:     name,
		cmp:      cmp,
		data:     skiplist.New[K, E](cmp),
		reporter: orNop(reporter),
	}
}

// Name returns the index name used in reports
func (o *Ordered[K, E]) Name() string {
	return o.name
}

// Insert adds e under key
func (o *Ordered[K, E]) Insert(key K, e E) {
	o.data.Insert(key, e)
}

// RemoveSafely removes the first occurrence of e among entries equal to key
func (o *Ordered[K, E]) RemoveSafely(location string, key K, e E) bool {
	if o.data.Delete(key, e) {
		return true
	}
	o.reporter.ReportInconsistency(location, e.EntityID(), o.name)
	return false
}

// FindExact returns all entities whose key equals key
func (o *Ordered[K, E]) FindExact(key K) []E {
	var out []E
	it := o.data.Seek(key)
	for it.Next() && o.cmp(it.Key(), key) == 0 {
		out = append(out, it.Value())
	}
	return out
}

// FindRange returns entities with low <= key < high
func (o *Ordered[K, E]) FindRange(low, high K) []E {
	var out []E
	if o.cmp(low, high) >= 0 {
		return out
	}
	it := o.data.Seek(low)
	for it.Next() && o.cmp(it.Key(), high) < 0 {
		out = append(out, it.Value())
	}
	return out
}

// FindFrom returns entities with key >= low
func (o *Ordered[K, E]) FindFrom(low K) []E {
	var out []E
	it := o.data.Seek(low)
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// Contains reports whether e is held under key
func (o *Ordered[K, E]) Contains(key K, e E) bool {
	return o.data.Contains(key, e)
}

// Len returns the number of entries
func (o *Ordered[K, E]) Len() int {
	return o.data.Len()
}

// Each visits entries in key order until fn returns false
func (o *Ordered[K, E]) Each(fn func(key K, e E) bool) {
	it := o.data.Iterator()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}
