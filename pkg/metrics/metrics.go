// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"math"
	"time"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// LabelStrategy is the label carried by every collector.
const LabelStrategy = "strategy"

var (
	// IterationDuration observes the time of one counting pass.
	IterationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "iteration_duration_seconds",
			Help:      "Bucketed histogram of the time (s) of one counting pass",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 20),
		}, []string{LabelStrategy})
	// IterationCounter counts finished passes.
	IterationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "iterations_total",
			Help:      "Counter of finished counting passes",
		}, []string{LabelStrategy})
	// ProcessedBytesCounter counts corpus bytes fed to the strategies.
	ProcessedBytesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "processed_bytes_total",
			Help:      "Counter of corpus bytes processed",
		}, []string{LabelStrategy})
	// ProcessedRecordsCounter counts records fed to the strategies.
	ProcessedRecordsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "processed_records_total",
			Help:      "Counter of records processed",
		}, []string{LabelStrategy})
	// DistinctGauge holds the distinct count of the last pass.
	DistinctGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "distinct_strings",
			Help:      "Distinct strings found by the last pass",
		}, []string{LabelStrategy})
	// OracleFailureCounter counts passes rejected by verification.
	OracleFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uniqstr",
			Subsystem: "run",
			Name:      "oracle_failures_total",
			Help:      "Counter of passes that disagreed with the reference count",
		}, []string{LabelStrategy})
)

// RegisterMetrics registers metrics.
func RegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(IterationDuration)
	registry.MustRegister(IterationCounter)
	registry.MustRegister(ProcessedBytesCounter)
	registry.MustRegister(ProcessedRecordsCounter)
	registry.MustRegister(DistinctGauge)
	registry.MustRegister(OracleFailureCounter)
}

// RemoveStrategy drops the series of one strategy.
func RemoveStrategy(strategy string) {
	labels := prometheus.Labels{LabelStrategy: strategy}
	IterationDuration.Delete(labels)
	IterationCounter.Delete(labels)
	ProcessedBytesCounter.Delete(labels)
	ProcessedRecordsCounter.Delete(labels)
	DistinctGauge.Delete(labels)
	OracleFailureCounter.Delete(labels)
}

// ObserveIteration records one finished pass.
func ObserveIteration(strategy string, d time.Duration, bytes, records, distinct int) {
	IterationDuration.WithLabelValues(strategy).Observe(d.Seconds())
	IterationCounter.WithLabelValues(strategy).Inc()
	ProcessedBytesCounter.WithLabelValues(strategy).Add(float64(bytes))
	ProcessedRecordsCounter.WithLabelValues(strategy).Add(float64(records))
	DistinctGauge.WithLabelValues(strategy).Set(float64(distinct))
}

// ReadCounter reports the current value of the counter.
func ReadCounter(counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Counter.GetValue()
}

// ReadGauge reports the current value of the gauge.
func ReadGauge(gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Gauge.GetValue()
}

// ReadHistogramCount reports how many samples the histogram observed.
func ReadHistogramCount(histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		return 0
	}
	return metric.Histogram.GetSampleCount()
}

// WriteTextfile dumps everything gathered by g to path in the text
// exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return errors.Trace(prometheus.WriteToTextfile(path, g))
}
