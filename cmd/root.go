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

// Package cmd provides the command line interface of the branch lineage analyzer
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Import platform implementations to register them
	_ "github.com/AlaudaDevops/toolbox/branch-lineage/pkg/platforms/github"
	_ "github.com/AlaudaDevops/toolbox/branch-lineage/pkg/platforms/gitlab"
)

// analyzeOption is the global instance of AnalyzeOption
var analyzeOption *AnalyzeOption

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "branch-lineage [owner/repo]",
	Short: "Compare feature branches merged into a main and a release branch",
	Long: `branch-lineage lists the pull requests merged into a main branch and a
release branch, keeps the feature/* source branches and reports which of them
reached both lines, only main or only release.

The report is written as JSON (or YAML) together with counts and percentages.
With --date only pull requests merged on or before that date are considered,
which makes it possible to build a timeline of dated analyses.

Example usage:
  # Analyze the current state of a repository
  branch-lineage --repo owner/repo --token $GITHUB_TOKEN

  # Analyze a release line as of a date
  branch-lineage owner/repo --release-branch release-1.2 --date 2024-03-31

  # GitLab self-managed, YAML output, keep a history of runs
  branch-lineage --platform gitlab --base-url https://gitlab.example.com \
    --repo group/project --format yaml --history-db lineage.db

Environment variables:
  Every flag can be set as LINEAGE_<FLAG>, for example LINEAGE_TOKEN or
  LINEAGE_RELEASE_BRANCH. GITHUB_TOKEN, GITHUB_REPO, MAIN_BRANCH and
  RELEASE_BRANCH are read as fallbacks.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Handle --version flag
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			return printVersionText(cmd.OutOrStdout(), getVersion())
		}
		return analyzeOption.Run(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
