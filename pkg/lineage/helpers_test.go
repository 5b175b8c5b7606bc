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

package lineage_test

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
)

// pullRequestFixture is the testdata form of a pull request
type pullRequestFixture struct {
	Number   int    `json:"number" yaml:"number"`
	Title    string `json:"title" yaml:"title"`
	Merged   bool   `json:"merged" yaml:"merged"`
	MergedAt string `json:"mergedAt" yaml:"mergedAt"`
	Head     string `json:"head" yaml:"head"`
	Author   string `json:"author" yaml:"author"`
}

func (f pullRequestFixture) toPullRequest(base string) *git.PullRequest {
	pr := &git.PullRequest{
		Number:  f.Number,
		Title:   f.Title,
		Merged:  f.Merged,
		HeadRef: f.Head,
		BaseRef: base,
		Author:  f.Author,
	}
	if f.MergedAt != "" {
		mergedAt, err := time.Parse(time.RFC3339, f.MergedAt)
		if err != nil {
			panic(err)
		}
		pr.MergedAt = &mergedAt
	}
	return pr
}

func toPullRequests(fixtures []pullRequestFixture, base string) []*git.PullRequest {
	prs := make([]*git.PullRequest, 0, len(fixtures))
	for _, f := range fixtures {
		prs = append(prs, f.toPullRequest(base))
	}
	return prs
}

// seq yields the given pull requests followed by the optional errors
func seq(prs []*git.PullRequest, errs ...error) iter.Seq2[*git.PullRequest, error] {
	return func(yield func(*git.PullRequest, error) bool) {
		for _, pr := range prs {
			if !yield(pr, nil) {
				return
			}
		}
		for _, err := range errs {
			if !yield(nil, err) {
				return
			}
		}
	}
}

// blockingSeq yields nothing until ctx is done
func blockingSeq(ctx context.Context) iter.Seq2[*git.PullRequest, error] {
	return func(yield func(*git.PullRequest, error) bool) {
		<-ctx.Done()
		yield(nil, ctx.Err())
	}
}

func merged(number int, head string, mergedAt time.Time) *git.PullRequest {
	return &git.PullRequest{Number: number, Merged: true, MergedAt: &mergedAt, HeadRef: head}
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

// recordingMetrics keeps every recorded metric for assertions
type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  map[lineage.Target]map[string]int
	durations map[lineage.Target]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		outcomes:  map[lineage.Target]map[string]int{},
		durations: map[lineage.Target]string{},
	}
}

func (m *recordingMetrics) RecordPullRequest(target lineage.Target, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes[target] == nil {
		m.outcomes[target] = map[string]int{}
	}
	m.outcomes[target][outcome]++
}

func (m *recordingMetrics) RecordFetchDuration(target lineage.Target, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[target] = status
}
