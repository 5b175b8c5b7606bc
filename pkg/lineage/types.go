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

// Package lineage collects merged feature branches of a main and a release
// branch and classifies them into common, main-only and release-only sets.
package lineage

import "time"

// Target names one of the two analyzed long-lived branches
type Target string

const (
	// TargetMain is the main line
	TargetMain Target = "main"
	// TargetRelease is the release line
	TargetRelease Target = "release"
)

// MergeRecord is one accepted merged pull request
type MergeRecord struct {
	BranchName string    `json:"name" yaml:"name"`
	MergedAt   time.Time `json:"merged_at" yaml:"merged_at"`
	PRNumber   int       `json:"pr_number" yaml:"pr_number"`
	Title      string    `json:"pr_title" yaml:"pr_title"`
	URL        string    `json:"pr_url,omitempty" yaml:"pr_url,omitempty"`
	Author     string    `json:"author,omitempty" yaml:"author,omitempty"`
}

// LineageResult holds the merge records collected for one target branch,
// in the order the source yielded them.
type LineageResult struct {
	Target  Target
	Branch  string
	Records []MergeRecord
}

// BranchNames returns the source branch names of all records, duplicates included
func (r *LineageResult) BranchNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Records))
	for _, record := range r.Records {
		names = append(names, record.BranchName)
	}
	return names
}

// Lineage pairs the results of both target branches.
// A side is nil when its collection failed.
type Lineage struct {
	Main    *LineageResult
	Release *LineageResult
}

// Complete returns true when both sides were collected
func (l Lineage) Complete() bool {
	return l.Main != nil && l.Release != nil
}
