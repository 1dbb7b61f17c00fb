// Package store keeps one kind of entity in a primary ID map plus any number of
// registered secondary index fields, and keeps the two consistent across add,
// field change and removal.
//
// A Store is not safe for concurrent use. Callers serialize access externally.
package store

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/model"
	"go.uber.org/zap"
)

// Operation labels used for the operations counter
const (
	OpAdd        = "add"
	OpSoftRemove = "soft_remove"
	OpHardRemove = "hard_remove"
	OpChange     = "change"
)

// Tombstone is a soft-removed entity retained until hard removal
type Tombstone[E index.Entity] struct {
	RemovedAt time.Time
	Entity    E
}

// Options configures a Store. Every field is optional.
type Options struct {
	Reporter index.Reporter
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Clock    func() time.Time
}

// Store is the primary ID map, its tombstone log and its index fields
type Store[E index.Entity] struct {
	name       string
	entities   map[model.ID]E
	fields     []Field[E]
	tombstones []Tombstone[E]
	reporter   index.Reporter
	logger     *zap.Logger
	metrics    *metrics.Metrics
	clock      func() time.Time
}

// New creates an empty store. name labels logs, metrics and reports.
func New[E index.Entity](name string, opts Options) *Store[E] {
	s := &Store[E]{
		name:     name,
		entities: make(map[model.ID]E),
		reporter: opts.Reporter,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		clock:    opts.Clock,
	}
	if s.reporter == nil {
		s.reporter = index.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.updateGauges()
	return s
}

// Name returns the store name
func (s *Store[E]) Name() string {
	return s.name
}

// Register binds fields to the store and indexes every entity already present.
// It panics when a field is already bound or its name is taken.
func (s *Store[E]) Register(fields ...Field[E]) {
	for _, f := range fields {
		if f.bound() {
			panic(fmt.Sprintf("store %s: field %s is already registered", s.name, f.Name()))
		}
		for _, existing := range s.fields {
			if existing.Name() == f.Name() {
				panic(fmt.Sprintf("store %s: duplicate field name %s", s.name, f.Name()))
			}
		}

		f.bind(binder{store: s.name, reporter: s.reporter, metrics: s.metrics})
		for _, e := range s.entities {
			f.insert(e)
		}
		s.fields = append(s.fields, f)
	}
}

// Fields returns the registered fields in registration order
func (s *Store[E]) Fields() []Field[E] {
	return slices.Clone(s.fields)
}

// Add inserts e into the primary map and every field. A zero entity, a zero ID
// or an ID already present leaves the store unchanged and returns false.
func (s *Store[E]) Add(e E) bool {
	var zero E
	if e == zero {
		return false
	}
	id := e.EntityID()
	if id.IsZero() {
		return false
	}
	if _, exists := s.entities[id]; exists {
		s.logger.Debug("Entity already present, add ignored",
			zap.String("store", s.name),
			zap.String("entity_id", id.String()))
		return false
	}

	s.entities[id] = e
	for _, f := range s.fields {
		f.insert(e)
	}

	s.count(OpAdd)
	s.updateGauges()
	return true
}

// FindByID returns the live entity with id
func (s *Store[E]) FindByID(id model.ID) (E, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Contains reports whether id is live in the store
func (s *Store[E]) Contains(id model.ID) bool {
	_, ok := s.entities[id]
	return ok
}

// All iterates live entities in ID order
func (s *Store[E]) All() iter.Seq2[model.ID, E] {
	return func(yield func(model.ID, E) bool) {
		for _, id := range s.IDs() {
			if !yield(id, s.entities[id]) {
				return
			}
		}
	}
}

// IDs returns live IDs in ascending order
func (s *Store[E]) IDs() []model.ID {
	ids := make([]model.ID, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, model.Compare)
	return ids
}

// Len returns the number of live entities
func (s *Store[E]) Len() int {
	return len(s.entities)
}

// SoftRemove removes id from every field, appends a tombstone and then drops it
// from the primary map. An absent id is a no-op returning false.
func (s *Store[E]) SoftRemove(id model.ID) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}

	location := s.name + ".SoftRemove"
	for _, f := range s.fields {
		f.remove(location, e)
	}
	s.tombstones = append(s.tombstones, Tombstone[E]{RemovedAt: s.clock(), Entity: e})
	delete(s.entities, id)

	s.logger.Debug("Entity soft removed",
		zap.String("store", s.name),
		zap.String("entity_id", id.String()),
		zap.Int("tombstones", len(s.tombstones)))

	s.count(OpSoftRemove)
	s.updateGauges()
	return true
}

// HardRemove discards the tombstone at pos. Out of range is a no-op returning false.
func (s *Store[E]) HardRemove(pos int) bool {
	if pos < 0 || pos >= len(s.tombstones) {
		return false
	}
	s.tombstones = slices.Delete(s.tombstones, pos, pos+1)

	s.count(OpHardRemove)
	s.updateGauges()
	return true
}

// Tombstones returns a copy of the tombstone log, oldest first
func (s *Store[E]) Tombstones() []Tombstone[E] {
	return slices.Clone(s.tombstones)
}

// TombstoneLen returns the length of the tombstone log
func (s *Store[E]) TombstoneLen() int {
	return len(s.tombstones)
}

// Change runs mutate against the live entity with id and, when it reports a
// change, moves the entity between keys of the given fields. No fields means
// every registered field. location names the caller in inconsistency reports.
func (s *Store[E]) Change(location string, id model.ID, mutate func(E) bool, fields ...Field[E]) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	if len(fields) == 0 {
		fields = s.fields
	}

	pending := make([]func(string), len(fields))
	for i, f := range fields {
		pending[i] = f.track(e)
	}
	if !mutate(e) {
		return false
	}
	for _, reindex := range pending {
		reindex(location)
	}

	s.count(OpChange)
	return true
}

// Verify scans every field for entities missing from it, entries whose entity is
// not live and entries under keys the entity no longer yields. It never reports
// through the store's reporter.
func (s *Store[E]) Verify() []index.Inconsistency {
	order := make([]E, 0, len(s.entities))
	for _, id := range s.IDs() {
		order = append(order, s.entities[id])
	}

	location := s.name + ".Verify"
	var out []index.Inconsistency
	for _, f := range s.fields {
		out = append(out, f.audit(location, order, s.entities)...)
	}
	return out
}

func (s *Store[E]) count(op string) {
	if s.metrics != nil {
		s.metrics.OperationsTotal.WithLabelValues(s.name, op).Inc()
	}
}

func (s *Store[E]) updateGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.EntitiesTotal.WithLabelValues(s.name).Set(float64(len(s.entities)))
	s.metrics.TombstonesTotal.WithLabelValues(s.name).Set(float64(len(s.tombstones)))
}
