package qmeasure

import (
	"sync"
	"time"
)

// Metrics accumulates counters across evaluations when attached to a
// Config. Evaluation itself is pure; the counters are the only shared
// state and take the lock.
type Metrics struct {
	mu sync.RWMutex

	Evaluations         int64
	ShotsProcessed      int64
	ProductsEvaluated   int64
	DefinitionsComputed int64
	TotalEvalTime       time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordEvaluation(start time.Time, shots, products, definitions int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Evaluations++
	m.ShotsProcessed += int64(shots)
	m.ProductsEvaluated += int64(products)
	m.DefinitionsComputed += int64(definitions)
	m.TotalEvalTime += time.Since(start)
}

// ExportMetrics returns a snapshot of the counters.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"evaluations":          m.Evaluations,
		"shots_processed":      m.ShotsProcessed,
		"products_evaluated":   m.ProductsEvaluated,
		"definitions_computed": m.DefinitionsComputed,
		"total_eval_time_ms":   m.TotalEvalTime.Milliseconds(),
	}
}
