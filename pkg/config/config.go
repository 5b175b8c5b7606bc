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

// Package config provides configuration management for the branch lineage analyzer
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// PlatformGitHub selects the GitHub pull request source
	PlatformGitHub = "github"
	// PlatformGitLab selects the GitLab merge request source
	PlatformGitLab = "gitlab"

	// FormatJSON writes reports as indented JSON
	FormatJSON = "json"
	// FormatYAML writes reports as YAML
	FormatYAML = "yaml"

	// DefaultBranchPrefix is the naming convention of analyzed source branches
	DefaultBranchPrefix = "feature/"
)

// Config holds the configuration for a branch lineage analysis run
type Config struct {
	// Platform configuration
	Platform string `json:"platform" yaml:"platform" mapstructure:"platform"`
	Token    string `json:"token" yaml:"token" mapstructure:"token"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base-url"`

	// Repository configuration
	Repository    string `json:"repository" yaml:"repository" mapstructure:"repo"`
	MainBranch    string `json:"main_branch" yaml:"main_branch" mapstructure:"main-branch"`
	ReleaseBranch string `json:"release_branch" yaml:"release_branch" mapstructure:"release-branch"`
	BranchPrefix  string `json:"branch_prefix" yaml:"branch_prefix" mapstructure:"branch-prefix"`

	// Date is the optional cutoff, YYYY-MM-DD or RFC3339
	Date string `json:"date,omitempty" yaml:"date,omitempty" mapstructure:"date"`

	// Fetch configuration
	FetchTimeout      time.Duration `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty" mapstructure:"fetch-timeout"`
	PerPage           int           `json:"per_page" yaml:"per_page" mapstructure:"per-page"`
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests-per-second"`

	// Output configuration
	Output       string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
	Format       string `json:"format" yaml:"format" mapstructure:"format"`
	AllowPartial bool   `json:"allow_partial,omitempty" yaml:"allow_partial,omitempty" mapstructure:"allow-partial"`
	MetricsFile  string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics-file"`
	HistoryDB    string `json:"history_db,omitempty" yaml:"history_db,omitempty" mapstructure:"history-db"`

	// Logging configuration
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" mapstructure:"verbose"`
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty" mapstructure:"log-file"`
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Platform:          PlatformGitHub,
		MainBranch:        "main",
		ReleaseBranch:     "release",
		BranchPrefix:      DefaultBranchPrefix,
		PerPage:           100,
		RequestsPerSecond: 10,
		Format:            FormatJSON,
	}
}

// DebugString returns a JSON representation of the config with sensitive information redacted
func (c *Config) DebugString() string {
	debugConfig := *c
	debugConfig.Token = "[REDACTED]"

	data, err := json.MarshalIndent(debugConfig, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to marshal config: %v", err)
	}
	return string(data)
}

// Validate checks if the configuration is valid.
// The cutoff is parsed here so an invalid date fails before any request is sent.
func (c *Config) Validate() error {
	if c.Platform == "" {
		return ErrMissingPlatform
	}
	if !slices.Contains([]string{PlatformGitHub, PlatformGitLab}, strings.ToLower(c.Platform)) {
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, c.Platform)
	}
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Repository == "" {
		return ErrMissingRepository
	}
	if c.MainBranch == "" {
		return ErrMissingMainBranch
	}
	if c.ReleaseBranch == "" {
		return ErrMissingReleaseBranch
	}
	if c.MainBranch == c.ReleaseBranch {
		return fmt.Errorf("%w: %s", ErrIdenticalBranches, c.MainBranch)
	}
	if c.BranchPrefix == "" {
		return ErrMissingBranchPrefix
	}
	if _, err := c.CutoffTime(); err != nil {
		return err
	}
	if c.FetchTimeout < 0 {
		return ErrInvalidFetchTimeout
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidPerPage, c.PerPage)
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRequestRate
	}
	if !slices.Contains([]string{FormatJSON, FormatYAML}, c.Format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format)
	}
	return nil
}

// HasCutoff returns true when the analysis is bounded by a cutoff date
func (c *Config) HasCutoff() bool {
	return strings.TrimSpace(c.Date) != ""
}

// CutoffTime parses Date into an instant, nil when no cutoff is configured
func (c *Config) CutoffTime() (*time.Time, error) {
	if !c.HasCutoff() {
		return nil, nil
	}
	t, err := ParseCutoff(c.Date)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// cutoffLayouts are tried in order; layouts without a zone are read as UTC
var cutoffLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// ParseCutoff parses a cutoff date.
// A plain date means midnight UTC of that day, so merges later that day are excluded.
func ParseCutoff(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range cutoffLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD or RFC3339)", ErrInvalidCutoff, value)
}

// OutputPath returns the configured output path or the default file name.
// Defaults are branch_data.<ext>, or branch_data_<YYYYMMDD>.<ext> for a dated analysis.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	ext := c.Format
	if ext == "" {
		ext = FormatJSON
	}
	if c.HasCutoff() {
		return fmt.Sprintf("branch_data_%s.%s", dateSuffix(c.Date), ext)
	}
	return "branch_data." + ext
}

// dateSuffix turns the cutoff into a file name fragment
func dateSuffix(date string) string {
	date = strings.TrimSpace(date)
	if t, err := time.Parse(time.DateOnly, date); err == nil {
		return t.Format("20060102")
	}
	replacer := strings.NewReplacer("-", "", ":", "", " ", "_", string(filepath.Separator), "_")
	return replacer.Replace(date)
}
