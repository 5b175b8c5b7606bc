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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// CollectorOptions configures a Collector
type CollectorOptions struct {
	// BranchPrefix is the naming convention of accepted head refs
	BranchPrefix string
	// FetchTimeout bounds each branch collection, 0 means no timeout
	FetchTimeout time.Duration
	// Metrics receives per pull request outcomes and fetch durations
	Metrics MetricsRecorder
}

// Collector gathers merge records for the main and the release branch
type Collector struct {
	*logrus.Logger
	source  git.PullRequestSource
	options CollectorOptions
}

// NewCollector creates a Collector reading from source
func NewCollector(logger *logrus.Logger, source git.PullRequestSource, options CollectorOptions) *Collector {
	if options.Metrics == nil {
		options.Metrics = &NoOpMetricsRecorder{}
	}
	return &Collector{
		Logger:  logger,
		source:  source,
		options: options,
	}
}

// Collect fetches and filters both branches concurrently and waits for both.
// When a side fails its result is nil and the returned *CollectError names it;
// the other side is still returned.
func (c *Collector) Collect(ctx context.Context, mainBranch, releaseBranch string, cutoff *time.Time) (Lineage, error) {
	var (
		wg         conc.WaitGroup
		lineage    Lineage
		mainErr    error
		releaseErr error
	)

	wg.Go(func() {
		lineage.Main, mainErr = c.collectBranch(ctx, TargetMain, mainBranch, cutoff)
	})
	wg.Go(func() {
		lineage.Release, releaseErr = c.collectBranch(ctx, TargetRelease, releaseBranch, cutoff)
	})
	wg.Wait()

	collectErr := &CollectError{}
	if mainErr != nil {
		collectErr.Failures = append(collectErr.Failures, &BranchError{Target: TargetMain, Branch: mainBranch, Err: mainErr})
	}
	if releaseErr != nil {
		collectErr.Failures = append(collectErr.Failures, &BranchError{Target: TargetRelease, Branch: releaseBranch, Err: releaseErr})
	}
	if len(collectErr.Failures) > 0 {
		return lineage, collectErr
	}
	return lineage, nil
}

// collectBranch runs the fetch-and-filter pipeline of one target branch
func (c *Collector) collectBranch(ctx context.Context, target Target, branch string, cutoff *time.Time) (*LineageResult, error) {
	if c.options.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.FetchTimeout)
		defer cancel()
	}

	logger := c.WithFields(logrus.Fields{
		"target": target,
		"branch": branch,
	})
	logger.Infof("Fetching pull requests merged into %s...", branch)
	if cutoff != nil {
		logger.Infof("Filtering for pull requests merged on or before %s", cutoff.Format(time.RFC3339))
	}

	startTime := time.Now()
	records, err := FilterMergeRecords(c.source.ListClosedPullRequests(ctx, branch), FilterOptions{
		Cutoff:       cutoff,
		BranchPrefix: c.options.BranchPrefix,
		OnAccept: func(record MergeRecord) {
			c.options.Metrics.RecordPullRequest(target, "accepted")
			logger.Debugf("Found merged branch: %s (merged on %s)", record.BranchName, record.MergedAt.Format(time.RFC3339))
		},
		OnSkip: func(pr *git.PullRequest, reason SkipReason, err error) {
			c.options.Metrics.RecordPullRequest(target, string(reason))
			if reason == SkipMalformed {
				logger.Warnf("Skipping pull request: %v", err)
			}
		},
	})
	if err == nil {
		// a source that stops early on cancellation must not look like a complete listing
		err = ctx.Err()
	}
	if err != nil {
		c.options.Metrics.RecordFetchDuration(target, "error", time.Since(startTime))
		if errors.Is(err, context.DeadlineExceeded) && c.options.FetchTimeout > 0 {
			err = fmt.Errorf("timed out after %s: %w", c.options.FetchTimeout, err)
		}
		logger.Errorf("Failed to collect merged branches: %v", err)
		return nil, err
	}

	c.options.Metrics.RecordFetchDuration(target, "success", time.Since(startTime))
	logger.Infof("Found %d merged %s* branches in %s", len(records), c.options.BranchPrefix, branch)
	return &LineageResult{
		Target:  target,
		Branch:  branch,
		Records: records,
	}, nil
}
