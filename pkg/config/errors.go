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

package config

import "errors"

// Configuration validation errors
var (
	ErrMissingPlatform      = errors.New("platform is required")
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrMissingToken         = errors.New("token is required (use --token or GITHUB_TOKEN)")
	ErrMissingRepository    = errors.New("repository is required (use --repo or GITHUB_REPO)")
	ErrMissingMainBranch    = errors.New("main branch is required")
	ErrMissingReleaseBranch = errors.New("release branch is required")
	ErrIdenticalBranches    = errors.New("main and release branch must differ")
	ErrMissingBranchPrefix  = errors.New("branch prefix is required")
	ErrInvalidCutoff        = errors.New("invalid cutoff date")
	ErrInvalidFetchTimeout  = errors.New("fetch timeout must not be negative")
	ErrInvalidPerPage       = errors.New("per-page must be between 1 and 100")
	ErrInvalidRequestRate   = errors.New("requests per second must not be negative")
	ErrUnsupportedFormat    = errors.New("unsupported output format")
)
