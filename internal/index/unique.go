package index

// Unique maps a hashable key to exactly one entity.
// Key collisions are rejected by callers before Insert.
type Unique[K comparable, E Entity] struct {
	name     string
	entries  map[K]E
	reporter Reporter
}

// NewUnique creates an empty one-to-one index
func NewUnique[K comparable, E Entity](name string, reporter Reporter) *Unique[K, E] {
	return &Unique[K, E]{
		name:     name,
		entries:  make(map[K]E),
		reporter: orNop(reporter),
	}
}

// Name returns the index name used in reports
func (u *Unique[K, E]) Name() string {
	return u.name
}

// Insert maps key to e, replacing any previous holder
func (u *Unique[K, E]) Insert(key K, e E) {
	u.entries[key] = e
}

// RemoveSafely removes key when it is held by e, reporting otherwise
func (u *Unique[K, E]) RemoveSafely(location string, key K, e E) bool {
	held, ok := u.entries[key]
	if !ok || held != e {
		u.reporter.ReportInconsistency(location, e.EntityID(), u.name)
		return false
	}
	delete(u.entries, key)
	return true
}

// Find returns the entity holding key
func (u *Unique[K, E]) Find(key K) (E, bool) {
	e, ok := u.entries[key]
	return e, ok
}

// Contains reports whether key is held by e
func (u *Unique[K, E]) Contains(key K, e E) bool {
	held, ok := u.entries[key]
	return ok && held == e
}

// Len returns the number of keys
func (u *Unique[K, E]) Len() int {
	return len(u.entries)
}

// Each visits every entry until fn returns false
func (u *Unique[K, E]) Each(fn func(key K, e E) bool) {
	for key, e := range u.entries {
		if !fn(key, e) {
			return
		}
	}
}
