// Package prommetrics exposes strongptr allocator statistics to Prometheus.
//
// Statistics are read at scrape time through the lock-free Stats method of
// the allocators, so registering a collector adds no cost to allocation.
package prommetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llxisdsh/strongptr"
)

const (
	defaultNamespace = "strongptr"
	allocatorLabel   = "allocator"
)

// StatsSource is implemented by strongptr.Tracking and strongptr.Monotonic.
type StatsSource interface {
	Stats() strongptr.AllocStats
}

// Config defines configurable Collector options.
type Config struct {
	namespace   string
	constLabels prometheus.Labels
}

// WithNamespace replaces the default "strongptr" metric namespace.
func WithNamespace(ns string) func(*Config) {
	return func(c *Config) {
		c.namespace = ns
	}
}

// WithConstLabels adds labels to every metric of the collector.
func WithConstLabels(labels prometheus.Labels) func(*Config) {
	return func(c *Config) {
		c.constLabels = labels
	}
}

// Collector is a prometheus.Collector over one or more named allocators.
type Collector struct {
	sources map[string]StatsSource

	allocations   *prometheus.Desc
	deallocations *prometheus.Desc
	violations    *prometheus.Desc
	liveRecords   *prometheus.Desc
	liveBytes     *prometheus.Desc
	peakBytes     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector reporting sources, keyed by the value of
// the "allocator" label.
func NewCollector(sources map[string]StatsSource, options ...func(*Config)) *Collector {
	c := &Config{namespace: defaultNamespace}
	for _, o := range options {
		o(c)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(c.namespace, "", name),
			help,
			[]string{allocatorLabel},
			c.constLabels,
		)
	}

	copied := make(map[string]StatsSource, len(sources))
	for k, v := range sources {
		copied[k] = v
	}
	return &Collector{
		sources:       copied,
		allocations:   desc("allocations_total", "Total number of successful allocations."),
		deallocations: desc("deallocations_total", "Total number of accepted deallocations."),
		violations:    desc("violations_total", "Total number of rejected deallocations."),
		liveRecords:   desc("live_records", "Allocations not yet deallocated."),
		liveBytes:     desc("live_bytes", "Bytes held by live allocations."),
		peakBytes:     desc("peak_bytes", "High-water mark of live bytes."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocations
	ch <- c.deallocations
	ch <- c.violations
	ch <- c.liveRecords
	ch <- c.liveBytes
	ch <- c.peakBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, src := range c.sources {
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(s.Allocations), name)
		ch <- prometheus.MustNewConstMetric(c.deallocations, prometheus.CounterValue, float64(s.Deallocations), name)
		ch <- prometheus.MustNewConstMetric(c.violations, prometheus.CounterValue, float64(s.Violations), name)
		ch <- prometheus.MustNewConstMetric(c.liveRecords, prometheus.GaugeValue, float64(s.LiveRecords), name)
		ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(s.LiveBytes), name)
		ch <- prometheus.MustNewConstMetric(c.peakBytes, prometheus.GaugeValue, float64(s.PeakBytes), name)
	}
}

// Register registers a Collector over sources with reg.
func Register(reg prometheus.Registerer, sources map[string]StatsSource, options ...func(*Config)) (*Collector, error) {
	c := NewCollector(sources, options...)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
