package index

import "slices"

// Exact maps a hashable key to the entities holding it, in insertion order
type Exact[K comparable, E Entity] struct {
	name     string
	buckets  map[K][]E
	reporter Reporter
}

// NewExact creates an empty hash index
func NewExact[K comparable, E Entity](name string, reporter Reporter) *Exact[K, E] {
	return &Exact[K, E]{
		name:     name,
		buckets:  make(map[K][]E),
		reporter: orNop(reporter),
	}
}

// Name returns the index name used in reports
func (x *Exact[K, E]) Name() string {
	return x.name
}

// Insert appends e to the bucket for key
func (x *Exact[K, E]) Insert(key K, e E) {
	x.buckets[key] = append(x.buckets[key], e)
}

// RemoveSafely removes the first occurrence of e under key and drops empty buckets.
// A miss is reported and false returned.
func (x *Exact[K, E]) RemoveSafely(location string, key K, e E) bool {
	bucket, ok := x.buckets[key]
	i := -1
	if ok {
		i = slices.Index(bucket, e)
	}
	if i < 0 {
		x.reporter.ReportInconsistency(location, e.EntityID(), x.name)
		return false
	}

	if len(bucket) == 1 {
		delete(x.buckets, key)
		return true
	}
	x.buckets[key] = slices.Delete(bucket, i, i+1)
	return true
}

// Find returns the entities under key. The slice is read-only and empty when key is absent.
func (x *Exact[K, E]) Find(key K) []E {
	return slices.Clip(x.buckets[key])
}

// Contains reports whether e is held under key
func (x *Exact[K, E]) Contains(key K, e E) bool {
	return slices.Contains(x.buckets[key], e)
}

// DropKey erases the whole bucket for key and returns how many entries it held
func (x *Exact[K, E]) DropKey(key K) int {
	n := len(x.buckets[key])
	delete(x.buckets, key)
	return n
}

// Keys returns the number of distinct keys
func (x *Exact[K, E]) Keys() int {
	return len(x.buckets)
}

// Len returns the number of entries across all buckets
func (x *Exact[K, E]) Len() int {
	n := 0
	for _, bucket := range x.buckets {
		n += len(bucket)
	}
	return n
}

// Each visits every entry until fn returns false
func (x *Exact[K, E]) Each(fn func(key K, e E) bool) {
	for key, bucket := range x.buckets {
		for _, e := range bucket {
			if !fn(key, e) {
				return
			}
		}
	}
}
