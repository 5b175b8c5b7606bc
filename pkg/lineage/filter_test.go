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
	"errors"
	"testing"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMergeRecords(t *testing.T) {
	cutoff := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-time.Hour)

	tests := []struct {
		name   string
		pr     *git.PullRequest
		cutoff *time.Time
		reason lineage.SkipReason
	}{
		{name: "accepted", pr: merged(1, "feature/a", before), cutoff: &cutoff},
		{name: "accepted without cutoff", pr: merged(1, "feature/a", cutoff.AddDate(1, 0, 0))},
		{name: "merged exactly at cutoff", pr: merged(1, "feature/a", cutoff), cutoff: &cutoff},
		{name: "merged after cutoff", pr: merged(1, "feature/a", cutoff.Add(time.Nanosecond)), cutoff: &cutoff, reason: lineage.SkipAfterCutoff},
		{name: "closed without merge", pr: &git.PullRequest{Number: 1, HeadRef: "feature/a"}, reason: lineage.SkipUnmerged},
		{name: "prefix mismatch", pr: merged(1, "bugfix/a", before), reason: lineage.SkipPrefixMismatch},
		{name: "prefix is case sensitive", pr: merged(1, "Feature/a", before), reason: lineage.SkipPrefixMismatch},
		{name: "prefix needs the slash", pr: merged(1, "feature-a", before), reason: lineage.SkipPrefixMismatch},
		{name: "merged without time", pr: &git.PullRequest{Number: 1, Merged: true, HeadRef: "feature/a"}, reason: lineage.SkipMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var skipped []lineage.SkipReason
			records, err := lineage.FilterMergeRecords(seq([]*git.PullRequest{tt.pr}), lineage.FilterOptions{
				Cutoff:       tt.cutoff,
				BranchPrefix: "feature/",
				OnSkip: func(_ *git.PullRequest, reason lineage.SkipReason, _ error) {
					skipped = append(skipped, reason)
				},
			})
			require.NoError(t, err)
			if tt.reason == "" {
				require.Len(t, records, 1)
				assert.Equal(t, tt.pr.HeadRef, records[0].BranchName)
				assert.Empty(t, skipped)
				return
			}
			assert.Empty(t, records)
			assert.Equal(t, []lineage.SkipReason{tt.reason}, skipped)
		})
	}
}

func TestFilterMergeRecords_StopsOnSourceError(t *testing.T) {
	now := time.Now()
	boom := errors.New("connection reset")

	records, err := lineage.FilterMergeRecords(seq([]*git.PullRequest{merged(1, "feature/a", now), nil}, boom), lineage.FilterOptions{
		BranchPrefix: "feature/",
	})
	assert.ErrorIs(t, err, boom)
	require.Len(t, records, 1)
	assert.Equal(t, "feature/a", records[0].BranchName)
}

func TestFilterMergeRecords_EmptySource(t *testing.T) {
	records, err := lineage.FilterMergeRecords(seq(nil), lineage.FilterOptions{BranchPrefix: "feature/"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
