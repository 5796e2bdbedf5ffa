package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus metrics (gauges)
	promMetrics = struct {
		utilization     prometheus.Gauge
		avgDelay        prometheus.Gauge
		dropProb        prometheus.Gauge
		fairnessIndex   prometheus.Gauge
		virtualTime     prometheus.Gauge
		bufferOccupancy prometheus.Gauge
	}{
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_utilization",
			Help: "Fraction of available link-bytes actually transmitted",
		}),
		avgDelay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_avg_packet_delay_seconds",
			Help: "Average packet delay over transmitted packets",
		}),
		dropProb: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_drop_probability",
			Help: "Dropped packets over generated packets",
		}),
		fairnessIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_fairness_index",
			Help: "Jain's fairness index over per-source throughput",
		}),
		virtualTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_virtual_time_seconds",
			Help: "Current simulation clock",
		}),
		bufferOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linksched_buffer_occupancy_packets",
			Help: "Packets currently held in the buffer",
		}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.utilization,
		promMetrics.avgDelay,
		promMetrics.dropProb,
		promMetrics.fairnessIndex,
		promMetrics.virtualTime,
		promMetrics.bufferOccupancy,
	)
}

func updatePrometheusMetrics(snap snapshot) {
	results := snap.Results
	promMetrics.utilization.Set(results.Utilization)
	promMetrics.avgDelay.Set(results.AvgDelay)
	promMetrics.dropProb.Set(results.DropProbability)
	promMetrics.fairnessIndex.Set(results.FairnessIndex)
	promMetrics.virtualTime.Set(snap.VirtualTime)
	promMetrics.bufferOccupancy.Set(float64(snap.BufferLen))
}
