// Package index implements the secondary indices kept beside a primary entity map:
// hash buckets, unique keys, ordered ranges and lower-cased prefixes.
//
// None of the indices is safe for concurrent use. A removal that cannot find the
// expected entry is reported through a Reporter and never returned as an error.
package index

import (
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/model"
	"go.uber.org/zap"
)

// Entity is anything with an immutable ID, held by reference
type Entity interface {
	comparable
	EntityID() model.ID
}

// Reporter receives index inconsistencies
type Reporter interface {
	ReportInconsistency(location string, id model.ID, index string)
}

// Reason classifies an inconsistency
type Reason string

const (
	// ReasonMissing means an entry expected in an index was not there
	ReasonMissing Reason = "missing"
	// ReasonOrphan means an index holds an entity the primary map does not
	ReasonOrphan Reason = "orphan"
	// ReasonStale means an entity is held under a key it no longer yields
	ReasonStale Reason = "stale"
)

// Inconsistency describes one detected index drift
type Inconsistency struct {
	Location string
	EntityID model.ID
	Index    string
	Reason   Reason
}

// Nop discards every report
type Nop struct{}

func (Nop) ReportInconsistency(string, model.ID, string) {}

// Recorder keeps reports in memory
type Recorder struct {
	Reports []Inconsistency
}

// ReportInconsistency implements Reporter
func (r *Recorder) ReportInconsistency(location string, id model.ID, index string) {
	r.Reports = append(r.Reports, Inconsistency{
		Location: location,
		EntityID: id,
		Index:    index,
		Reason:   ReasonMissing,
	})
}

// Reset drops recorded reports
func (r *Recorder) Reset() {
	r.Reports = nil
}

// Multi fans a report out to several reporters
type Multi []Reporter

// ReportInconsistency implements Reporter
func (m Multi) ReportInconsistency(location string, id model.ID, index string) {
	for _, r := range m {
		r.ReportInconsistency(location, id, index)
	}
}

// LogReporter logs inconsistencies and counts them per store and index
type LogReporter struct {
	store   string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewLogReporter creates a reporter for one store. m may be nil.
func NewLogReporter(store string, logger *zap.Logger, m *metrics.Metrics) *LogReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReporter{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// ReportInconsistency implements Reporter
func (r *LogReporter) ReportInconsistency(location string, id model.ID, index string) {
	r.logger.Warn("Index inconsistency detected",
		zap.String("store", r.store),
		zap.String("location", location),
		zap.String("entity_id", id.String()),
		zap.String("index", index))

	if r.metrics != nil {
		r.metrics.InconsistenciesTotal.WithLabelValues(r.store, index).Inc()
	}
}

func orNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
