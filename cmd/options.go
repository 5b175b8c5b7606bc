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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/config"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/history"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/metrics"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AnalyzeOption option for the analyze command
type AnalyzeOption struct {
	*logrus.Logger
	Config *config.Config

	// createSource builds the pull request source, git.CreateSource by default
	createSource func(logger *logrus.Logger, config *git.Config) (git.PullRequestSource, error)
	// lookupEnv reads the CI metadata, os.LookupEnv by default
	lookupEnv lineage.LookupFunc
	now       func() time.Time
	logFile   io.Closer
}

// NewAnalyzeOption creates a new AnalyzeOption instance
func NewAnalyzeOption() *AnalyzeOption {
	return &AnalyzeOption{
		Logger:       logrus.New(),
		Config:       config.NewDefaultConfig(),
		createSource: git.CreateSource,
		lookupEnv:    os.LookupEnv,
		now:          time.Now,
	}
}

// AddFlags add flags to options
func (p *AnalyzeOption) AddFlags(flags *pflag.FlagSet) {
	// Platform and authentication configuration
	flags.StringVar(&p.Config.Platform, "platform", p.Config.Platform, "Git platform (github or gitlab)")
	flags.StringVar(&p.Config.Token, "token", "", "Git platform API token for authentication")
	flags.StringVar(&p.Config.BaseURL, "base-url", "", "API base URL for GitHub Enterprise or GitLab self-managed (optional)")

	// Repository configuration
	flags.StringVar(&p.Config.Repository, "repo", "", "Repository as owner/repo (GitLab: group/project)")
	flags.StringVar(&p.Config.MainBranch, "main-branch", p.Config.MainBranch, "Main branch name")
	flags.StringVar(&p.Config.ReleaseBranch, "release-branch", p.Config.ReleaseBranch, "Release branch name")
	flags.StringVar(&p.Config.BranchPrefix, "branch-prefix", p.Config.BranchPrefix, "Prefix of the source branches to analyze")
	flags.StringVar(&p.Config.Date, "date", "", "Only count pull requests merged on or before this date (YYYY-MM-DD or RFC3339)")

	// Fetch configuration
	flags.DurationVar(&p.Config.FetchTimeout, "fetch-timeout", p.Config.FetchTimeout, "Timeout for collecting one branch, 0 disables it")
	flags.IntVar(&p.Config.PerPage, "per-page", p.Config.PerPage, "Page size of list requests (1-100)")
	flags.Float64Var(&p.Config.RequestsPerSecond, "requests-per-second", p.Config.RequestsPerSecond, "Client side request rate limit, 0 disables it")

	// Output configuration
	flags.StringVar(&p.Config.Output, "output", "", "Report file (default branch_data.<format> or branch_data_<YYYYMMDD>.<format>)")
	flags.StringVar(&p.Config.Format, "format", p.Config.Format, "Report format (json or yaml)")
	flags.BoolVar(&p.Config.AllowPartial, "allow-partial", false, "Write a partial report when one branch cannot be collected")
	flags.StringVar(&p.Config.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file (optional)")
	flags.StringVar(&p.Config.HistoryDB, "history-db", "", "Record the run in this SQLite database (optional)")

	// Debug and logging flags
	flags.BoolVar(&p.Config.Verbose, "verbose", false, "Enable verbose logging (debug level logs) and the full summary")
	flags.StringVar(&p.Config.LogFile, "log-file", "", "Also write logs to this rotating file (optional)")
}

// Run executes the analysis
func (p *AnalyzeOption) Run(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		p.Config.Repository = args[0]
		viper.Set("repo", args[0])
	}

	// Initialize and validate configuration
	if err := p.initialize(); err != nil {
		return err
	}
	defer p.closeLogFile()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return p.analyze(ctx, cmd.OutOrStdout())
}

// analyze collects both branches, then persists and prints the report
func (p *AnalyzeOption) analyze(ctx context.Context, out io.Writer) error {
	cfg := p.Config
	cutoff, err := cfg.CutoffTime()
	if err != nil {
		return err
	}

	source, err := p.createSource(p.Logger, &git.Config{
		Platform:          cfg.Platform,
		Token:             cfg.Token,
		BaseURL:           cfg.BaseURL,
		Repository:        cfg.Repository,
		PerPage:           cfg.PerPage,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s source: %w", cfg.Platform, err)
	}

	recorder := metrics.NewRecorder(cfg.Repository)
	collector := lineage.NewCollector(p.Logger, source, lineage.CollectorOptions{
		BranchPrefix: cfg.BranchPrefix,
		FetchTimeout: cfg.FetchTimeout,
		Metrics:      recorder,
	})

	p.Infof("Analyzing %s: %s vs %s", cfg.Repository, cfg.MainBranch, cfg.ReleaseBranch)
	result, collectErr := collector.Collect(ctx, cfg.MainBranch, cfg.ReleaseBranch, cutoff)

	now := p.now()
	analysis := lineage.BuildReport(result, collectErr, lineage.ReportMeta{
		Repository:   cfg.Repository,
		AnalysisDate: strings.TrimSpace(cfg.Date),
		GeneratedAt:  now,
	}, lineage.SnapshotEnvironment(p.lookupEnv), now)

	recorder.RecordReport(analysis)
	p.writeMetrics(recorder)

	outputPath := cfg.OutputPath()
	writer := report.NewWriter(p.Logger)
	if collectErr != nil {
		p.Errorf("Analysis of %s is incomplete: %v", cfg.Repository, collectErr)
		if cfg.AllowPartial {
			if err := writer.Write(outputPath, analysis, cfg.Format); err != nil {
				return fmt.Errorf("%w (and %w)", collectErr, err)
			}
			p.Warnf("Partial report saved to %s", outputPath)
			report.PrintSummary(out, analysis, cfg.Verbose)
		}
		return collectErr
	}

	if err := writer.Write(outputPath, analysis, cfg.Format); err != nil {
		return err
	}
	if err := p.recordHistory(ctx, analysis); err != nil {
		return err
	}

	report.PrintSummary(out, analysis, cfg.Verbose)
	fmt.Fprintf(out, "\nResults saved to %s\n", outputPath)
	return nil
}

// writeMetrics exports the run metrics; a failure does not fail the analysis
func (p *AnalyzeOption) writeMetrics(recorder *metrics.Recorder) {
	if p.Config.MetricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(p.Config.MetricsFile); err != nil {
		p.Warnf("Failed to export metrics: %v", err)
		return
	}
	p.Debugf("Metrics written to %s", p.Config.MetricsFile)
}

// recordHistory appends the analysis to the history database when configured
func (p *AnalyzeOption) recordHistory(ctx context.Context, analysis *lineage.AnalysisReport) error {
	if p.Config.HistoryDB == "" {
		return nil
	}
	store, err := history.Open(p.Logger, p.Config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, analysis, p.Config.MainBranch, p.Config.ReleaseBranch)
}

// readAllFromViper reads all configuration values from viper
// This includes environment variables with LINEAGE_ prefix
func (p *AnalyzeOption) readAllFromViper() {
	// Use viper.Unmarshal to automatically map all values to the config struct
	if err := viper.Unmarshal(p.Config); err != nil {
		// Log warning but continue - this shouldn't prevent the application from running
		p.Warnf("Failed to unmarshal config from viper: %v", err)
	}

	// Clean up string values by trimming whitespace and newlines
	p.Config.Platform = strings.ToLower(strings.TrimSpace(p.Config.Platform))
	p.Config.Token = strings.TrimSpace(p.Config.Token)
	p.Config.BaseURL = strings.TrimSpace(p.Config.BaseURL)
	p.Config.Repository = strings.TrimSpace(p.Config.Repository)
	p.Config.MainBranch = strings.TrimSpace(p.Config.MainBranch)
	p.Config.ReleaseBranch = strings.TrimSpace(p.Config.ReleaseBranch)
	p.Config.Date = strings.TrimSpace(p.Config.Date)
	p.Config.Output = strings.TrimSpace(p.Config.Output)
	p.Config.Format = strings.ToLower(strings.TrimSpace(p.Config.Format))
}

// initialize initializes and validates the AnalyzeOption configuration
func (p *AnalyzeOption) initialize() error {
	// Read all values from viper (which includes environment variables)
	p.readAllFromViper()

	// Set log level based on verbose flag
	if p.Config.Verbose {
		p.SetLevel(logrus.DebugLevel)
		p.Debug("Verbose logging enabled")
	} else {
		p.SetLevel(logrus.InfoLevel)
	}
	p.setupLogFile()

	// Validate configuration
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	p.Debugf("Configuration: %s", p.Config.DebugString())
	return nil
}

// setupLogFile tees the log output into a rotating file
func (p *AnalyzeOption) setupLogFile() {
	if p.Config.LogFile == "" {
		return
	}
	fileWriter := &lumberjack.Logger{
		Filename:   p.Config.LogFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	p.SetOutput(io.MultiWriter(p.Out, fileWriter))
	p.logFile = fileWriter
}

func (p *AnalyzeOption) closeLogFile() {
	if p.logFile != nil {
		p.logFile.Close()
		p.logFile = nil
	}
}
