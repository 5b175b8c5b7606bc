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

// Package git defines the platform neutral pull request model consumed by the lineage engine
package git

import (
	"context"
	"iter"
	"time"

	"github.com/sirupsen/logrus"
)

// PullRequest represents a closed pull request (or merge request) across different platforms
type PullRequest struct {
	Number   int        // Pull request number, unique within the repository
	Title    string     // Pull request title
	Merged   bool       // Whether the pull request was merged
	MergedAt *time.Time // Merge instant, nil when the platform did not report one
	HeadRef  string     // Source branch name
	BaseRef  string     // Target branch name
	URL      string     // Web URL of the pull request
	Author   string     // Author login, empty when unknown
}

//go:generate mockgen -package=git -destination=../../testing/mock/github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git/pull_request_source.go github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git PullRequestSource

// PullRequestSource lists closed pull requests of a hosted repository.
//
// The returned sequence pages through the platform API lazily. A yielded error
// wrapping ErrMalformedRecord refers to a single pull request and iteration may
// continue past it; any other error (typically wrapping ErrSourceUnavailable)
// ends the sequence.
type PullRequestSource interface {
	// ListClosedPullRequests yields the closed pull requests whose base is baseBranch
	ListClosedPullRequests(ctx context.Context, baseBranch string) iter.Seq2[*PullRequest, error]
}

// Config holds the configuration for creating a pull request source
type Config struct {
	Platform          string  // "github" or "gitlab"
	Token             string  // API token
	BaseURL           string  // API base URL, empty for the public service
	Repository        string  // "owner/repo" on GitHub, full project path on GitLab
	PerPage           int     // Page size for list calls
	RequestsPerSecond float64 // Client side request rate, 0 disables limiting
}

//go:generate mockgen -package=git -destination=../../testing/mock/github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git/source_factory.go github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git SourceFactory

// SourceFactory defines the interface for creating platform-specific sources
type SourceFactory interface {
	// CreateSource creates a new pull request source for the platform
	CreateSource(logger *logrus.Logger, config *Config) (PullRequestSource, error)
}
