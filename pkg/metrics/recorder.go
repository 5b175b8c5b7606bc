/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exports analysis metrics in the Prometheus text format
package metrics

import (
	"fmt"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "branch_lineage"

// Branch classes used as the "class" label
const (
	ClassCommon      = "common"
	ClassMainOnly    = "main_only"
	ClassReleaseOnly = "release_only"
)

// Recorder implements lineage.MetricsRecorder on a private registry so that
// one run can be written to a node exporter textfile.
type Recorder struct {
	registry *prometheus.Registry

	// PullRequestsTotal counts pull requests seen per target and filter outcome
	PullRequestsTotal *prometheus.CounterVec
	// FetchDuration tracks how long collecting one branch took
	FetchDuration *prometheus.HistogramVec
	// Branches holds the distinct branch count per class
	Branches *prometheus.GaugeVec
	// BranchPercentage holds the share of each class
	BranchPercentage *prometheus.GaugeVec
	// Partial is 1 when the last analysis missed a side
	Partial prometheus.Gauge
	// LastRun is the unix time of the last analysis
	LastRun prometheus.Gauge
}

var _ lineage.MetricsRecorder = &Recorder{}

// NewRecorder creates a Recorder whose metrics carry the repository label
func NewRecorder(repository string) *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	constLabels := prometheus.Labels{"repository": repository}

	return &Recorder{
		registry: registry,
		PullRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "pull_requests_total",
				Help:        "Total number of pull requests read per target branch and filter outcome",
				ConstLabels: constLabels,
			},
			[]string{"target", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "fetch_duration_seconds",
				Help:        "Branch collection duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"target", "status"},
		),
		Branches: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "branches",
				Help:        "Number of distinct feature branches per class",
				ConstLabels: constLabels,
			},
			[]string{"class"},
		),
		BranchPercentage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "branch_percentage",
				Help:        "Share of feature branches per class",
				ConstLabels: constLabels,
			},
			[]string{"class"},
		),
		Partial: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "partial",
				Help:        "Whether the last analysis is missing a branch",
				ConstLabels: constLabels,
			},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "last_run_timestamp_seconds",
				Help:        "Unix time of the last analysis",
				ConstLabels: constLabels,
			},
		),
	}
}

// RecordPullRequest records the filter outcome of one pull request
func (r *Recorder) RecordPullRequest(target lineage.Target, outcome string) {
	r.PullRequestsTotal.WithLabelValues(string(target), outcome).Inc()
}

// RecordFetchDuration records the collection duration of a branch
func (r *Recorder) RecordFetchDuration(target lineage.Target, status string, duration time.Duration) {
	r.FetchDuration.WithLabelValues(string(target), status).Observe(duration.Seconds())
}

// RecordReport records the classification of a finished analysis
func (r *Recorder) RecordReport(report *lineage.AnalysisReport) {
	r.LastRun.Set(float64(report.Timestamp.Unix()))
	if report.Partial || report.Stats == nil {
		r.Partial.Set(1)
		return
	}
	r.Partial.Set(0)

	stats := report.Stats
	r.Branches.WithLabelValues(ClassCommon).Set(float64(stats.CommonCount))
	r.Branches.WithLabelValues(ClassMainOnly).Set(float64(stats.MainOnlyCount))
	r.Branches.WithLabelValues(ClassReleaseOnly).Set(float64(stats.ReleaseOnlyCount))
	r.BranchPercentage.WithLabelValues(ClassCommon).Set(stats.CommonPercentage)
	r.BranchPercentage.WithLabelValues(ClassMainOnly).Set(stats.MainOnlyPercentage)
	r.BranchPercentage.WithLabelValues(ClassReleaseOnly).Set(stats.ReleaseOnlyPercentage)
}

// Registry returns the registry holding the recorded metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all recorded metrics to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
