package metrics

// Request metrics for catalog calls

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// OperationType identifies which catalog call a metric belongs to.
type OperationType string

const (
	OperationPage OperationType = "PAGE"
	OperationIDs  OperationType = "IDS"
)

// Metric is one completed catalog request.
type Metric struct {
	Timestamp  time.Time
	Operation  OperationType
	URL        string
	Success    bool
	RTTMs      float64
	StatusCode int
	Timeout    bool
	Error      string
}

// Sink collects and aggregates metrics
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
}

// Summary contains aggregated statistics
type Summary struct {
	TotalRequests int
	Successful    int
	Failed        int
	TimeoutCount  int
	RateLimited   int
	ServerErrors  int
	MinRTT        float64
	MaxRTT        float64
	AvgRTT        float64
	SumRTT        float64
	RTTCount      int
	P50RTT        float64
	P90RTT        float64
	P99RTT        float64
	RTTBuckets    map[string]int
	ByOperation   map[OperationType]*OperationStats
}

// OperationStats contains statistics for a specific operation type
type OperationStats struct {
	Count    int
	Success  int
	Failed   int
	MinRTT   float64
	MaxRTT   float64
	AvgRTT   float64
	SumRTT   float64
	RTTCount int
}

func newSummary() *Summary {
	return &Summary{
		RTTBuckets:  make(map[string]int),
		ByOperation: make(map[OperationType]*OperationStats),
	}
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{summary: newSummary()}
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	if s == nil {
		return
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// GetMetrics returns a copy of every recorded metric.
func (s *Sink) GetMetrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics := make([]Metric, len(s.metrics))
	copy(metrics, s.metrics)
	return metrics
}

// GetSummary returns the aggregated summary
func (s *Sink) GetSummary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := *s.summary
	summary.RTTBuckets = make(map[string]int, len(s.summary.RTTBuckets))
	for k, v := range s.summary.RTTBuckets {
		summary.RTTBuckets[k] = v
	}
	summary.ByOperation = make(map[OperationType]*OperationStats, len(s.summary.ByOperation))
	for op, stats := range s.summary.ByOperation {
		copied := *stats
		summary.ByOperation[op] = &copied
	}

	rtts := make([]float64, 0, len(s.metrics))
	for _, m := range s.metrics {
		if m.Success && m.RTTMs > 0 {
			rtts = append(rtts, m.RTTMs)
		}
	}
	p := computePercentiles(rtts)
	summary.P50RTT, summary.P90RTT, summary.P99RTT = p[0], p[1], p[2]
	return &summary
}

// String is a one-line digest for logs and the status bar.
func (s *Summary) String() string {
	if s.TotalRequests == 0 {
		return "no requests"
	}
	return fmt.Sprintf("%d requests, %d ok, %d failed, p50 %.0fms, p90 %.0fms, max %.0fms",
		s.TotalRequests, s.Successful, s.Failed, s.P50RTT, s.P90RTT, s.MaxRTT)
}

func (s *Sink) updateSummary(m Metric) {
	s.summary.TotalRequests++

	if m.Success {
		s.summary.Successful++
	} else {
		s.summary.Failed++
		if m.Timeout {
			s.summary.TimeoutCount++
		}
		switch {
		case m.StatusCode == 429:
			s.summary.RateLimited++
		case m.StatusCode >= 500:
			s.summary.ServerErrors++
		}
	}

	if m.Success && m.RTTMs > 0 {
		if s.summary.MinRTT == 0 || m.RTTMs < s.summary.MinRTT {
			s.summary.MinRTT = m.RTTMs
		}
		if m.RTTMs > s.summary.MaxRTT {
			s.summary.MaxRTT = m.RTTMs
		}
		s.summary.SumRTT += m.RTTMs
		s.summary.RTTCount++
		s.summary.AvgRTT = s.summary.SumRTT / float64(s.summary.RTTCount)
		incrementBucket(s.summary.RTTBuckets, m.RTTMs)
	}

	opStats, exists := s.summary.ByOperation[m.Operation]
	if !exists {
		opStats = &OperationStats{}
		s.summary.ByOperation[m.Operation] = opStats
	}
	opStats.Count++
	if !m.Success {
		opStats.Failed++
		return
	}
	opStats.Success++
	if m.RTTMs > 0 {
		if opStats.MinRTT == 0 || m.RTTMs < opStats.MinRTT {
			opStats.MinRTT = m.RTTMs
		}
		if m.RTTMs > opStats.MaxRTT {
			opStats.MaxRTT = m.RTTMs
		}
		opStats.SumRTT += m.RTTMs
		opStats.RTTCount++
		opStats.AvgRTT = opStats.SumRTT / float64(opStats.RTTCount)
	}
}

func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 50:
		buckets["lt_50ms"]++
	case value < 100:
		buckets["50_100ms"]++
	case value < 250:
		buckets["100_250ms"]++
	case value < 500:
		buckets["250_500ms"]++
	case value < 1000:
		buckets["500ms_1s"]++
	default:
		buckets["gt_1s"]++
	}
}

// computePercentiles returns p50, p90 and p99. values is sorted in place.
func computePercentiles(values []float64) [3]float64 {
	var result [3]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.99)
	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
