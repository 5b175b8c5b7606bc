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
	"math"
	"time"
)

// StatisticsBlock summarizes a classification.
// MainCount and ReleaseCount are raw list lengths, duplicates included,
// while TotalBranches counts distinct names.
type StatisticsBlock struct {
	TotalBranches         int       `json:"total_branches" yaml:"total_branches"`
	MainCount             int       `json:"main_count" yaml:"main_count"`
	ReleaseCount          int       `json:"release_count" yaml:"release_count"`
	CommonCount           int       `json:"common_count" yaml:"common_count"`
	MainOnlyCount         int       `json:"main_only_count" yaml:"main_only_count"`
	ReleaseOnlyCount      int       `json:"release_only_count" yaml:"release_only_count"`
	CommonPercentage      float64   `json:"common_percentage" yaml:"common_percentage"`
	MainOnlyPercentage    float64   `json:"main_only_percentage" yaml:"main_only_percentage"`
	ReleaseOnlyPercentage float64   `json:"release_only_percentage" yaml:"release_only_percentage"`
	Repository            string    `json:"repository" yaml:"repository"`
	Timestamp             time.Time `json:"timestamp" yaml:"timestamp"`
	AnalysisTime          time.Time `json:"analysis_time" yaml:"analysis_time"`
	AnalysisDate          string    `json:"analysis_date" yaml:"analysis_date"`

	GitHubRepository *string `json:"github_repository,omitempty" yaml:"github_repository,omitempty"`
	GitHubWorkflow   *string `json:"github_workflow,omitempty" yaml:"github_workflow,omitempty"`
	GitHubRunID      *string `json:"github_run_id,omitempty" yaml:"github_run_id,omitempty"`
	GitHubCommit     *string `json:"github_commit,omitempty" yaml:"github_commit,omitempty"`
}

// ReportMeta identifies the analysis a statistics block belongs to
type ReportMeta struct {
	Repository   string
	AnalysisDate string
	GeneratedAt  time.Time
}

// Aggregate computes counts and percentages over a classification
func Aggregate(mainNames, releaseNames []string, classification ClassificationResult, meta ReportMeta, env EnvironmentSnapshot, now time.Time) StatisticsBlock {
	total := classification.Total()
	stats := StatisticsBlock{
		TotalBranches:    total,
		MainCount:        len(mainNames),
		ReleaseCount:     len(releaseNames),
		CommonCount:      classification.Common.Len(),
		MainOnlyCount:    classification.MainOnly.Len(),
		ReleaseOnlyCount: classification.ReleaseOnly.Len(),
		Repository:       meta.Repository,
		Timestamp:        meta.GeneratedAt,
		AnalysisTime:     now,
		AnalysisDate:     meta.AnalysisDate,
		GitHubRepository: env.Repository,
		GitHubWorkflow:   env.Workflow,
		GitHubRunID:      env.RunID,
		GitHubCommit:     env.Commit,
	}

	stats.CommonPercentage = Percentage(stats.CommonCount, total)
	stats.MainOnlyPercentage = Percentage(stats.MainOnlyCount, total)
	stats.ReleaseOnlyPercentage = Percentage(stats.ReleaseOnlyCount, total)
	return stats
}

// Percentage returns 100*count/total rounded half away from zero to one decimal, 0 when total is 0
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}
