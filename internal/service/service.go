// Package service wires one store per CRM entity kind with the index fields that
// kind is queried by, and exposes typed lookups, field changes and cascade hooks.
package service

import (
	"iter"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/model"
	"github.com/devrev/crmstore/internal/store"
	"go.uber.org/zap"
)

// Resolver answers whether a referenced entity is still live
type Resolver interface {
	Exists(id model.ID) bool
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(id model.ID) bool

// Exists implements Resolver
func (f ResolverFunc) Exists(id model.ID) bool {
	return f(id)
}

// liveRef yields id when it is set and r still resolves it. A nil r resolves
// every set id.
func liveRef(r Resolver, id model.ID) []model.ID {
	if id.IsZero() {
		return nil
	}
	if r != nil && !r.Exists(id) {
		return nil
	}
	return []model.ID{id}
}

func liveRefs(r Resolver, ids []model.ID) []model.ID {
	out := make([]model.ID, 0, len(ids))
	for _, id := range ids {
		out = append(out, liveRef(r, id)...)
	}
	return out
}

func dateKey(d model.Date) []model.Date {
	return store.KeyIf(d, !d.IsZero())
}

func textKey(s string) []string {
	return store.KeyIf(s, s != "")
}

// base carries the operations every entity service shares
type base[E index.Entity] struct {
	entities *store.Store[E]
	logger   *zap.Logger
}

func newBase[E index.Entity](name string, opts store.Options) base[E] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Reporter == nil {
		opts.Reporter = index.NewLogReporter(name, opts.Logger, opts.Metrics)
	}
	return base[E]{
		entities: store.New[E](name, opts),
		logger:   opts.Logger,
	}
}

// Name returns the store name
func (b *base[E]) Name() string {
	return b.entities.Name()
}

// Add inserts e unless it is nil or its ID is zero or taken
func (b *base[E]) Add(e E) bool {
	return b.entities.Add(e)
}

// FindByID returns the live entity with id
func (b *base[E]) FindByID(id model.ID) (E, bool) {
	return b.entities.FindByID(id)
}

// Exists reports whether id is live, making every service a Resolver
func (b *base[E]) Exists(id model.ID) bool {
	return b.entities.Contains(id)
}

// All iterates live entities in ID order
func (b *base[E]) All() iter.Seq2[model.ID, E] {
	return b.entities.All()
}

// IDs returns live IDs in ascending order
func (b *base[E]) IDs() []model.ID {
	return b.entities.IDs()
}

// Len returns the number of live entities
func (b *base[E]) Len() int {
	return b.entities.Len()
}

// SoftRemove unindexes id and keeps it as a tombstone
func (b *base[E]) SoftRemove(id model.ID) bool {
	return b.entities.SoftRemove(id)
}

// HardRemove discards the tombstone at pos
func (b *base[E]) HardRemove(pos int) bool {
	return b.entities.HardRemove(pos)
}

// Tombstones returns a copy of the tombstone log
func (b *base[E]) Tombstones() []store.Tombstone[E] {
	return b.entities.Tombstones()
}

// TombstoneLen returns the length of the tombstone log
func (b *base[E]) TombstoneLen() int {
	return b.entities.TombstoneLen()
}

// Verify scans every index for drift from the primary map
func (b *base[E]) Verify() []index.Inconsistency {
	return b.entities.Verify()
}

func (b *base[E]) change(location string, id model.ID, mutate func(E) bool, fields ...store.Field[E]) bool {
	return b.entities.Change(location, id, mutate, fields...)
}

// drop erases the bucket for a party removed elsewhere. Referrers forget the
// dropped key, so their later changes and removals do not look for it.
func (b *base[E]) drop(field *store.ExactField[model.ID, E], id model.ID) int {
	n := field.Drop(id)
	if n > 0 {
		b.logger.Info("Dropped references to removed party",
			zap.String("store", b.Name()),
			zap.String("index", field.Name()),
			zap.String("party_id", id.String()),
			zap.Int("entries", n))
	}
	return n
}
