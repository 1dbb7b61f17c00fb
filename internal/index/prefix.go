package index

import (
	"strings"

	"github.com/google/btree"
)

const prefixDegree = 32

type prefixItem[E Entity] struct {
	key    string
	seq    uint64
	entity E
}

// Prefix maps lower-cased full string values to entities and answers
// starts-with queries by a bounded range scan.
type Prefix[E Entity] struct {
	name     string
	tree     *btree.BTreeG[prefixItem[E]]
	seq      uint64
	reporter Reporter
}

// NewPrefix creates an empty prefix index
func NewPrefix[E Entity](name string, reporter Reporter) *Prefix[E] {
	less := func(a, b prefixItem[E]) bool {
		if a.key != b.key {
			return a.key < b.key
		}
		return a.seq < b.seq
	}
	return &Prefix[E]{
		name:     name,
		tree:     btree.NewG[prefixItem[E]](prefixDegree, less),
		reporter: orNop(reporter),
	}
}

// Normalize is the key form stored by the index
func Normalize(value string) string {
	return strings.ToLower(value)
}

// Name returns the index name used in reports
func (p *Prefix[E]) Name() string {
	return p.name
}

// Insert adds e under the normalized value
func (p *Prefix[E]) Insert(value string, e E) {
	p.seq++
	p.tree.ReplaceOrInsert(prefixItem[E]{key: Normalize(value), seq: p.seq, entity: e})
}

// find locates the entry for e among items equal to the normalized value
func (p *Prefix[E]) find(value string, e E) (prefixItem[E], bool) {
	key := Normalize(value)
	var hit prefixItem[E]
	found := false
	// no string sorts strictly between key and key+"\x00"
	p.tree.AscendRange(prefixItem[E]{key: key}, prefixItem[E]{key: key + "\x00"}, func(item prefixItem[E]) bool {
		if item.entity == e {
			hit, found = item, true
			return false
		}
		return true
	})
	return hit, found
}

// RemoveSafely removes the first occurrence of e under the normalized value
func (p *Prefix[E]) RemoveSafely(location string, value string, e E) bool {
	item, ok := p.find(value, e)
	if !ok {
		p.reporter.ReportInconsistency(location, e.EntityID(), p.name)
		return false
	}
	p.tree.Delete(item)
	return true
}

// Contains reports whether e is held under the normalized value
func (p *Prefix[E]) Contains(value string, e E) bool {
	_, ok := p.find(value, e)
	return ok
}

// FindExact returns entities whose normalized value equals value
func (p *Prefix[E]) FindExact(value string) []E {
	key := Normalize(value)
	var out []E
	p.tree.AscendGreaterOrEqual(prefixItem[E]{key: key}, func(item prefixItem[E]) bool {
		if item.key != key {
			return false
		}
		out = append(out, item.entity)
		return true
	})
	return out
}

// FindPrefix returns entities whose normalized value starts with the lower-cased
// query. An empty query matches nothing.
func (p *Prefix[E]) FindPrefix(query string) []E {
	var out []E
	if query == "" {
		return out
	}
	low := Normalize(query)
	collect := func(item prefixItem[E]) bool {
		out = append(out, item.entity)
		return true
	}

	high, bounded := Successor(low)
	if bounded {
		p.tree.AscendRange(prefixItem[E]{key: low}, prefixItem[E]{key: high}, collect)
		return out
	}
	p.tree.AscendGreaterOrEqual(prefixItem[E]{key: low}, func(item prefixItem[E]) bool {
		if !strings.HasPrefix(item.key, low) {
			return false
		}
		return collect(item)
	})
	return out
}

// Len returns the number of entries
func (p *Prefix[E]) Len() int {
	return p.tree.Len()
}

// Each visits entries in key order until fn returns false
func (p *Prefix[E]) Each(fn func(key string, e E) bool) {
	p.tree.Ascend(func(item prefixItem[E]) bool {
		return fn(item.key, item.entity)
	})
}
