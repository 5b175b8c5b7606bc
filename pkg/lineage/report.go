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

package lineage

import (
	"errors"
	"time"
)

// LatestMarker is the analysis date of an analysis without cutoff
const LatestMarker = "latest"

// AnalysisReport is the persisted result of one analysis run.
// On a partial report the failed side and the classification are null.
type AnalysisReport struct {
	Main           []string         `json:"main" yaml:"main"`
	Release        []string         `json:"release" yaml:"release"`
	Common         []string         `json:"common" yaml:"common"`
	MainOnly       []string         `json:"mainOnly" yaml:"mainOnly"`
	ReleaseOnly    []string         `json:"releaseOnly" yaml:"releaseOnly"`
	MainDetails    []MergeRecord    `json:"mainDetails" yaml:"mainDetails"`
	ReleaseDetails []MergeRecord    `json:"releaseDetails" yaml:"releaseDetails"`
	Timestamp      time.Time        `json:"timestamp" yaml:"timestamp"`
	Repository     string           `json:"repository" yaml:"repository"`
	AnalysisDate   string           `json:"analysisDate" yaml:"analysisDate"`
	Partial        bool             `json:"partial,omitempty" yaml:"partial,omitempty"`
	Failures       []BranchFailure  `json:"failures,omitempty" yaml:"failures,omitempty"`
	Stats          *StatisticsBlock `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// BranchFailure is the persisted form of a BranchError
type BranchFailure struct {
	Target Target `json:"target" yaml:"target"`
	Branch string `json:"branch" yaml:"branch"`
	Error  string `json:"error" yaml:"error"`
}

// AnalysisDateMarker returns the cutoff as given, or LatestMarker without cutoff
func AnalysisDateMarker(date string) string {
	if date == "" {
		return LatestMarker
	}
	return date
}

// BuildReport assembles the report of a collection.
// Classification and statistics are only computed when both sides were collected;
// otherwise the report is marked partial and lists the failures from collectErr.
func BuildReport(lineage Lineage, collectErr error, meta ReportMeta, env EnvironmentSnapshot, now time.Time) *AnalysisReport {
	report := &AnalysisReport{
		Timestamp:    meta.GeneratedAt,
		Repository:   meta.Repository,
		AnalysisDate: AnalysisDateMarker(meta.AnalysisDate),
	}
	if lineage.Main != nil {
		report.Main = lineage.Main.BranchNames()
		report.MainDetails = lineage.Main.Records
	}
	if lineage.Release != nil {
		report.Release = lineage.Release.BranchNames()
		report.ReleaseDetails = lineage.Release.Records
	}

	var ce *CollectError
	if errors.As(collectErr, &ce) {
		for _, failure := range ce.Failures {
			report.Failures = append(report.Failures, BranchFailure{
				Target: failure.Target,
				Branch: failure.Branch,
				Error:  failure.Err.Error(),
			})
		}
	}
	if !lineage.Complete() {
		report.Partial = true
		return report
	}

	report.Recompute(env, now)
	return report
}

// Recompute classifies the collected name lists again and refreshes the statistics
func (r *AnalysisReport) Recompute(env EnvironmentSnapshot, now time.Time) {
	classification := Classify(r.Main, r.Release)
	r.Common = classification.Common.Sorted()
	r.MainOnly = classification.MainOnly.Sorted()
	r.ReleaseOnly = classification.ReleaseOnly.Sorted()

	stats := Aggregate(r.Main, r.Release, classification, ReportMeta{
		Repository:   r.Repository,
		AnalysisDate: AnalysisDateMarker(r.AnalysisDate),
		GeneratedAt:  r.Timestamp,
	}, env, now)
	r.Stats = &stats
}
