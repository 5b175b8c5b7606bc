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
	"iter"
	"strings"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
)

// SkipReason explains why a pull request did not become a merge record
type SkipReason string

const (
	SkipUnmerged       SkipReason = "unmerged"
	SkipAfterCutoff    SkipReason = "after_cutoff"
	SkipPrefixMismatch SkipReason = "prefix_mismatch"
	SkipMalformed      SkipReason = "malformed"
)

// FilterOptions configures the merge record acceptance predicate
type FilterOptions struct {
	// Cutoff excludes merges strictly after this instant, nil disables the bound
	Cutoff *time.Time
	// BranchPrefix is the literal prefix a head ref must start with
	BranchPrefix string
	// OnAccept is called for every accepted record
	OnAccept func(record MergeRecord)
	// OnSkip is called for every skipped pull request; pr is nil for
	// malformed entries the source could not decode
	OnSkip func(pr *git.PullRequest, reason SkipReason, err error)
}

// FilterMergeRecords consumes pull requests one by one and returns the merge
// records that pass the predicate: merged, merged no later than the cutoff and
// head ref starting with the branch prefix.
//
// Malformed entries are skipped. Any other error from the sequence stops the
// iteration and is returned together with the records accepted so far.
func FilterMergeRecords(prs iter.Seq2[*git.PullRequest, error], opts FilterOptions) ([]MergeRecord, error) {
	records := []MergeRecord{}
	for pr, err := range prs {
		if err != nil {
			if errors.Is(err, git.ErrMalformedRecord) {
				opts.skip(nil, SkipMalformed, err)
				continue
			}
			return records, err
		}
		if pr == nil {
			opts.skip(nil, SkipMalformed, git.ErrMalformedRecord)
			continue
		}

		record, reason, err := accept(pr, opts)
		if reason != "" {
			opts.skip(pr, reason, err)
			continue
		}
		if opts.OnAccept != nil {
			opts.OnAccept(record)
		}
		records = append(records, record)
	}
	return records, nil
}

func accept(pr *git.PullRequest, opts FilterOptions) (MergeRecord, SkipReason, error) {
	if !pr.Merged {
		return MergeRecord{}, SkipUnmerged, nil
	}
	if pr.MergedAt == nil {
		return MergeRecord{}, SkipMalformed, &git.MalformedRecordError{Number: pr.Number, Reason: "merged without merge time"}
	}
	if opts.Cutoff != nil && pr.MergedAt.After(*opts.Cutoff) {
		return MergeRecord{}, SkipAfterCutoff, nil
	}
	if !strings.HasPrefix(pr.HeadRef, opts.BranchPrefix) {
		return MergeRecord{}, SkipPrefixMismatch, nil
	}
	return MergeRecord{
		BranchName: pr.HeadRef,
		MergedAt:   *pr.MergedAt,
		PRNumber:   pr.Number,
		Title:      pr.Title,
		URL:        pr.URL,
		Author:     git.AuthorOrUnknown(pr.Author),
	}, "", nil
}

func (o FilterOptions) skip(pr *git.PullRequest, reason SkipReason, err error) {
	if o.OnSkip != nil {
		o.OnSkip(pr, reason, err)
	}
}
