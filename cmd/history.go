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
	"encoding/json"
	"fmt"
	"io"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/history"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// HistoryOption option for the history command
type HistoryOption struct {
	*logrus.Logger

	Database   string
	Repository string
	Output     string
}

var historyOption = &HistoryOption{Logger: logrus.New()}

// historyCmd prints the recorded timeline of a repository
var historyCmd = &cobra.Command{
	Use:   "history <owner/repo>",
	Short: "Show the timeline of recorded analyses",
	Long: `Show the analyses recorded with --history-db for a repository, ordered by
analysis date. The undated "latest" analysis is listed last.

Examples:
  branch-lineage history owner/repo --history-db lineage.db
  branch-lineage history owner/repo --history-db lineage.db --output json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		historyOption.Repository = args[0]
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return historyOption.Run(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyOption.Database, "history-db", "lineage.db", "SQLite database written by --history-db")
	historyCmd.Flags().StringVarP(&historyOption.Output, "output", "o", "text", "Output format (text|json)")
}

// Run prints the timeline
func (h *HistoryOption) Run(ctx context.Context, out io.Writer) error {
	if h.Output != "text" && h.Output != "json" {
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", h.Output)
	}

	store, err := history.Open(h.Logger, h.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	timeline, err := store.Timeline(ctx, h.Repository)
	if err != nil {
		return err
	}
	latest, err := store.Latest(ctx, h.Repository)
	if err != nil {
		return err
	}

	if h.Output == "json" {
		entries := append([]history.Snapshot{}, timeline...)
		if latest != nil {
			entries = append(entries, *latest)
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal timeline to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	history.PrintTimeline(out, h.Repository, timeline, latest)
	return nil
}
