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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// StatsOption option for the stats command
type StatsOption struct {
	*logrus.Logger

	Verbose bool
	Format  string

	lookupEnv lineage.LookupFunc
	now       func() time.Time
}

// NewStatsOption creates a new StatsOption instance
func NewStatsOption() *StatsOption {
	return &StatsOption{
		Logger:    logrus.New(),
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}
}

var statsOption = NewStatsOption()

// statsCmd re-analyzes a stored report
var statsCmd = &cobra.Command{
	Use:   "stats [input-file] [output-file]",
	Short: "Recompute statistics of a stored report",
	Long: `Load a report written by branch-lineage, recompute the classification and
statistics with the CI metadata of the current environment and save the result.

The output defaults to analyzed_branch_data.json, or analyzed_branch_data_<suffix>
when the input is named branch_data_<suffix>.

Examples:
  branch-lineage stats
  branch-lineage stats branch_data_20240331.json --verbose
  branch-lineage stats branch_data.json out/analysis.yaml`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return statsOption.Run(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsOption.Verbose, "verbose", false, "Print the full summary")
	statsCmd.Flags().StringVar(&statsOption.Format, "format", "", "Output format (json or yaml, default from the output extension)")
}

// Run loads the input report, recomputes it and writes the output report
func (s *StatsOption) Run(out io.Writer, args []string) error {
	input := "branch_data.json"
	if len(args) > 0 {
		input = args[0]
	}
	output := report.AnalyzedPath(input)
	if len(args) > 1 {
		output = args[1]
	}
	format := s.Format
	if format == "" {
		format = report.FormatFromPath(output, report.FormatJSON)
	}

	s.Infof("Loading branch data from %s...", input)
	analysis, err := report.Load(input)
	if err != nil {
		return err
	}

	s.Info("Analyzing branch data...")
	analysis.Recompute(lineage.SnapshotEnvironment(s.lookupEnv), s.now())

	if err := report.NewWriter(s.Logger).Write(output, analysis, format); err != nil {
		return err
	}

	report.PrintSummary(out, analysis, s.Verbose)
	fmt.Fprintf(out, "\nResults saved to %s\n", output)
	return nil
}
