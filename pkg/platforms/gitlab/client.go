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

// Package gitlab implements the pull request source for GitLab merge requests
package gitlab

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/sirupsen/logrus"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

func init() {
	git.RegisterFactory("gitlab", &Factory{})
}

const (
	defaultPerPage = 100
	// stateMerged lists merge requests that were merged; GitLab's "closed"
	// state only holds merge requests closed without merging
	stateMerged = "merged"
)

// Client implements the PullRequestSource interface for GitLab
type Client struct {
	*logrus.Logger
	client  *gitlab.Client
	project string // Full project path, e.g. group/subgroup/project
	perPage int
}

// Factory implements SourceFactory for GitLab
type Factory struct{}

// CreateSource creates a new GitLab merge request source
func (f *Factory) CreateSource(logger *logrus.Logger, config *git.Config) (git.PullRequestSource, error) {
	project := strings.Trim(strings.TrimSpace(config.Repository), "/")
	if project == "" || !strings.Contains(project, "/") {
		return nil, fmt.Errorf("invalid project %q, expected group/project", config.Repository)
	}

	options := []gitlab.ClientOptionFunc{}
	if config.BaseURL != "" {
		options = append(options, gitlab.WithBaseURL(config.BaseURL))
	}
	if config.RequestsPerSecond > 0 {
		options = append(options, gitlab.WithCustomLimiter(git.NewRateLimiter(config.RequestsPerSecond)))
	}

	client, err := gitlab.NewClient(config.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	perPage := config.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return &Client{
		Logger:  logger,
		client:  client,
		project: project,
		perPage: perPage,
	}, nil
}

// ListClosedPullRequests yields the merged merge requests targeting baseBranch, page by page
func (c *Client) ListClosedPullRequests(ctx context.Context, baseBranch string) iter.Seq2[*git.PullRequest, error] {
	return func(yield func(*git.PullRequest, error) bool) {
		opts := &gitlab.ListProjectMergeRequestsOptions{
			ListOptions: gitlab.ListOptions{
				PerPage: c.perPage,
				Page:    1,
			},
			State:        gitlab.Ptr(stateMerged),
			TargetBranch: gitlab.Ptr(baseBranch),
		}

		for {
			mrs, resp, err := c.client.MergeRequests.ListProjectMergeRequests(c.project, opts, gitlab.WithContext(ctx))
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield(nil, ctxErr)
					return
				}
				yield(nil, git.Unavailable(fmt.Sprintf("list merge requests of %s", c.project), err))
				return
			}
			c.Debugf("Fetched %d merged merge requests for %s (page %d)", len(mrs), baseBranch, opts.Page)

			for _, mr := range mrs {
				if mr == nil {
					if !yield(nil, &git.MalformedRecordError{Reason: "empty merge request entry"}) {
						return
					}
					continue
				}
				if mr.SourceBranch == "" {
					if !yield(nil, &git.MalformedRecordError{Number: int(mr.IID), Reason: "missing source branch"}) {
						return
					}
					continue
				}

				pr := &git.PullRequest{
					Number:   int(mr.IID),
					Title:    mr.Title,
					Merged:   mr.State == stateMerged || mr.MergedAt != nil,
					MergedAt: mr.MergedAt,
					HeadRef:  mr.SourceBranch,
					BaseRef:  mr.TargetBranch,
					URL:      mr.WebURL,
				}
				if mr.Author != nil {
					pr.Author = mr.Author.Username
				}
				if !yield(pr, nil) {
					return
				}
			}

			if resp == nil || resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}
