package health

import (
	"fmt"
	"sync"
	"time"

	"github.com/devrev/crmstore/internal/index"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/model"
	"go.uber.org/zap"
)

// Verifier is a store that can scan itself for index drift
type Verifier interface {
	Name() string
	Len() int
	TombstoneLen() int
	Verify() []index.Inconsistency
}

// CheckResult represents the result of checking one store
type CheckResult struct {
	Name            string
	Status          model.CheckStatus
	Message         string
	Entities        int
	Tombstones      int
	Inconsistencies []index.Inconsistency
	Timestamp       time.Time
}

// Report is the outcome of one pass over every store
type Report struct {
	Status    model.HealthStatus
	Checks    []CheckResult
	Timestamp time.Time
}

// Inconsistencies returns the number of inconsistencies across all checks
func (r Report) Inconsistencies() int {
	n := 0
	for _, c := range r.Checks {
		n += len(c.Inconsistencies)
	}
	return n
}

// ConsistencyChecker verifies stores on demand. It runs synchronously on the
// caller's goroutine, so it must not overlap with store mutations.
type ConsistencyChecker struct {
	verifiers []Verifier
	logger    *zap.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time

	mu   sync.RWMutex
	last Report
}

// NewConsistencyChecker creates a checker over verifiers. m may be nil.
func NewConsistencyChecker(logger *zap.Logger, m *metrics.Metrics, verifiers ...Verifier) *ConsistencyChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsistencyChecker{
		verifiers: verifiers,
		logger:    logger,
		metrics:   m,
		clock:     time.Now,
		last:      Report{Status: model.HealthStatusHealthy},
	}
}

// Add appends a store to check
func (c *ConsistencyChecker) Add(v Verifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifiers = append(c.verifiers, v)
}

// Run checks every store and records the report
func (c *ConsistencyChecker) Run() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	report := Report{Timestamp: now}

	allHealthy := true
	anyCritical := false
	for _, v := range c.verifiers {
		result := c.check(v, now)
		report.Checks = append(report.Checks, result)

		if result.Status != model.CheckStatusHealthy {
			allHealthy = false
			if result.Status == model.CheckStatusCritical {
				anyCritical = true
			}
		}
	}

	switch {
	case anyCritical:
		report.Status = model.HealthStatusUnhealthy
	case !allHealthy:
		report.Status = model.HealthStatusDegraded
	default:
		report.Status = model.HealthStatusHealthy
	}
	c.last = report

	if c.metrics != nil {
		c.metrics.HealthChecksTotal.WithLabelValues(string(report.Status)).Inc()
	}

	c.logger.Debug("Consistency check completed",
		zap.String("status", string(report.Status)),
		zap.Int("stores", len(report.Checks)),
		zap.Int("inconsistencies", report.Inconsistencies()))
	return report
}

// check grades one store: orphans are critical because removed entities stay
// reachable, missing and stale entries only degrade query results
func (c *ConsistencyChecker) check(v Verifier, now time.Time) CheckResult {
	found := v.Verify()
	result := CheckResult{
		Name:            v.Name(),
		Status:          model.CheckStatusHealthy,
		Entities:        v.Len(),
		Tombstones:      v.TombstoneLen(),
		Inconsistencies: found,
		Timestamp:       now,
	}

	if len(found) == 0 {
		result.Message = fmt.Sprintf("%d entities, %d tombstones, indices consistent", result.Entities, result.Tombstones)
		return result
	}

	counts := make(map[index.Reason]int)
	for _, inc := range found {
		counts[inc.Reason]++
		c.logger.Warn("Index drift detected",
			zap.String("store", v.Name()),
			zap.String("index", inc.Index),
			zap.String("entity_id", inc.EntityID.String()),
			zap.String("reason", string(inc.Reason)))
	}

	result.Status = model.CheckStatusWarning
	if counts[index.ReasonOrphan] > 0 {
		result.Status = model.CheckStatusCritical
	}
	result.Message = fmt.Sprintf("%d missing, %d stale, %d orphaned index entries",
		counts[index.ReasonMissing], counts[index.ReasonStale], counts[index.ReasonOrphan])
	return result
}

// LastReport returns the report of the most recent Run
func (c *ConsistencyChecker) LastReport() Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// IsHealthy reports whether the most recent Run found no drift
func (c *ConsistencyChecker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last.Status == model.HealthStatusHealthy
}
