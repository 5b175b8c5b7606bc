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

// Package github implements the pull request source for GitHub
package github

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

func init() {
	git.RegisterFactory("github", &Factory{})
}

const (
	defaultPerPage   = 100 // GitHub max per page
	maxPageAttempts  = 3
	maxRateLimitWait = time.Minute
)

// Client implements the PullRequestSource interface for GitHub
type Client struct {
	*logrus.Logger
	client  *github.Client // GitHub API client
	owner   string         // Repository owner
	repo    string         // Repository name
	perPage int            // Page size for list calls
	limiter *rate.Limiter  // Client side request rate
	backoff time.Duration  // Initial delay between page retries
}

// Factory implements SourceFactory for GitHub
type Factory struct{}

// createGitHubClient creates a GitHub client with the specified token
func createGitHubClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	// Set custom base URL if provided
	if baseURL != "" && baseURL != "https://api.github.com" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub enterprise URL: %w", err)
		}
	}

	return client, nil
}

// CreateSource creates a new GitHub pull request source
func (f *Factory) CreateSource(logger *logrus.Logger, config *git.Config) (git.PullRequestSource, error) {
	owner, repo, err := git.SplitRepository(config.Repository)
	if err != nil {
		return nil, err
	}

	client, err := createGitHubClient(context.Background(), config.Token, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	perPage := config.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return &Client{
		Logger:  logger,
		client:  client,
		owner:   owner,
		repo:    repo,
		perPage: perPage,
		limiter: git.NewRateLimiter(config.RequestsPerSecond),
		backoff: time.Second,
	}, nil
}

// ListClosedPullRequests yields the closed pull requests targeting baseBranch, page by page
func (c *Client) ListClosedPullRequests(ctx context.Context, baseBranch string) iter.Seq2[*git.PullRequest, error] {
	return func(yield func(*git.PullRequest, error) bool) {
		opts := &github.PullRequestListOptions{
			State:       "closed",
			Base:        baseBranch,
			ListOptions: github.ListOptions{PerPage: c.perPage},
		}

		for {
			prs, resp, err := c.listPage(ctx, opts)
			if err != nil {
				yield(nil, err)
				return
			}
			c.Debugf("Fetched %d closed pull requests for %s (page %d)", len(prs), baseBranch, max(opts.Page, 1))

			for _, pr := range prs {
				if !yield(convertPullRequest(pr)) {
					return
				}
			}

			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// listPage fetches one page, retrying transient failures
func (c *Client) listPage(ctx context.Context, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	delay := c.backoff
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		prs, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err == nil {
			return prs, resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}

		wait, transient := retryDelay(err, delay)
		if !transient || attempt >= maxPageAttempts {
			return nil, nil, git.Unavailable(fmt.Sprintf("list pull requests of %s/%s", c.owner, c.repo), err)
		}

		c.Warnf("Transient error listing pull requests (attempt %d/%d), retrying in %s: %v", attempt, maxPageAttempts, wait, err)
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}

// retryDelay decides whether err is worth another attempt and how long to wait
func retryDelay(err error, delay time.Duration) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time)
		if wait > maxRateLimitWait {
			return 0, false
		}
		return max(wait, delay), true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := abuseErr.GetRetryAfter()
		if wait > maxRateLimitWait {
			return 0, false
		}
		return max(wait, delay), true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response != nil && respErr.Response.StatusCode >= http.StatusInternalServerError {
			return delay, true
		}
		return 0, false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return delay, true
	}
	return 0, false
}

// convertPullRequest maps a GitHub pull request onto the platform neutral model.
// The list endpoint does not fill "merged", so a merge time also marks the PR as merged.
func convertPullRequest(pr *github.PullRequest) (*git.PullRequest, error) {
	if pr == nil || pr.GetNumber() == 0 {
		return nil, &git.MalformedRecordError{Reason: "missing pull request number"}
	}
	if pr.GetHead().GetRef() == "" {
		return nil, &git.MalformedRecordError{Number: pr.GetNumber(), Reason: "missing head ref"}
	}

	converted := &git.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Merged:  pr.GetMerged() || pr.MergedAt != nil,
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		URL:     pr.GetHTMLURL(),
		Author:  pr.GetUser().GetLogin(),
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		converted.MergedAt = &mergedAt
	}
	return converted, nil
}
