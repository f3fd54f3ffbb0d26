package slotsort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    radixHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRadixSort(records, passes, skipped int, d time.Duration, err error) {
//	    p.radixHistogram.Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordAllocate is called after each arena allocation attempt.
	RecordAllocate(words int, err error)

	// RecordRadixSort is called after each radix sort.
	// passes and skipped are the executed and skipped byte passes.
	RecordRadixSort(records, passes, skipped int, duration time.Duration, err error)

	// RecordComparatorSort is called after each comparator sort.
	RecordComparatorSort(records int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, error)                           {}
func (NoopMetricsCollector) RecordRadixSort(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordComparatorSort(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocateCount        atomic.Int64
	AllocateErrors       atomic.Int64
	AllocatedWords       atomic.Int64
	RadixCount           atomic.Int64
	RadixErrors          atomic.Int64
	RadixRecords         atomic.Int64
	RadixPasses          atomic.Int64
	RadixSkipped         atomic.Int64
	RadixTotalNanos      atomic.Int64
	ComparatorCount      atomic.Int64
	ComparatorErrors     atomic.Int64
	ComparatorRecords    atomic.Int64
	ComparatorTotalNanos atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(words int, err error) {
	b.AllocateCount.Add(1)
	if err != nil {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocatedWords.Add(int64(words))
}

// RecordRadixSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRadixSort(records, passes, skipped int, duration time.Duration, err error) {
	b.RadixCount.Add(1)
	if err != nil {
		b.RadixErrors.Add(1)
		return
	}
	b.RadixRecords.Add(int64(records))
	b.RadixPasses.Add(int64(passes))
	b.RadixSkipped.Add(int64(skipped))
	b.RadixTotalNanos.Add(duration.Nanoseconds())
}

// RecordComparatorSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordComparatorSort(records int, duration time.Duration, err error) {
	b.ComparatorCount.Add(1)
	if err != nil {
		b.ComparatorErrors.Add(1)
		return
	}
	b.ComparatorRecords.Add(int64(records))
	b.ComparatorTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocateCount:         b.AllocateCount.Load(),
		AllocateErrors:        b.AllocateErrors.Load(),
		AllocatedWords:        b.AllocatedWords.Load(),
		RadixCount:            b.RadixCount.Load(),
		RadixErrors:           b.RadixErrors.Load(),
		RadixPasses:           b.RadixPasses.Load(),
		RadixSkipped:          b.RadixSkipped.Load(),
		RadixNanosPerRec:      perRecord(b.RadixTotalNanos.Load(), b.RadixRecords.Load()),
		ComparatorCount:       b.ComparatorCount.Load(),
		ComparatorErrors:      b.ComparatorErrors.Load(),
		ComparatorNanosPerRec: perRecord(b.ComparatorTotalNanos.Load(), b.ComparatorRecords.Load()),
	}
}

func perRecord(nanos, records int64) float64 {
	if records == 0 {
		return 0
	}
	return float64(nanos) / float64(records)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocateCount         int64
	AllocateErrors        int64
	AllocatedWords        int64
	RadixCount            int64
	RadixErrors           int64
	RadixPasses           int64
	RadixSkipped          int64
	RadixNanosPerRec      float64
	ComparatorCount       int64
	ComparatorErrors      int64
	ComparatorNanosPerRec float64
}
