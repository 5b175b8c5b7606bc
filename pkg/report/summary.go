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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
)

// previewSize is the number of branch names listed per section in the verbose summary
const previewSize = 5

var rule = strings.Repeat("=", 50)

// PrintSummary writes the console summary of a report.
// The short form names the repository and the main counts; the verbose form
// adds percentages and a preview of the main, release and common names.
func PrintSummary(w io.Writer, report *lineage.AnalysisReport, verbose bool) {
	if report.Partial || report.Stats == nil {
		printPartial(w, report)
		return
	}

	stats := report.Stats
	if !verbose {
		fmt.Fprintf(w, "\nAnalysis complete for %s\n", stats.Repository)
		printAnalysisDate(w, stats.AnalysisDate)
		fmt.Fprintf(w, "Total branches: %d\n", stats.TotalBranches)
		fmt.Fprintf(w, "Main: %d, Release: %d, Common: %d\n", stats.MainCount, stats.ReleaseCount, stats.CommonCount)
		return
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "BRANCH ANALYSIS SUMMARY FOR %s\n", stats.Repository)
	printAnalysisDate(w, stats.AnalysisDate)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total unique branches: %d\n", stats.TotalBranches)
	fmt.Fprintf(w, "Branches in main: %d\n", stats.MainCount)
	fmt.Fprintf(w, "Branches in release: %d\n", stats.ReleaseCount)
	fmt.Fprintf(w, "Common branches: %d (%.1f%%)\n", stats.CommonCount, stats.CommonPercentage)
	fmt.Fprintf(w, "Branches only in main: %d (%.1f%%)\n", stats.MainOnlyCount, stats.MainOnlyPercentage)
	fmt.Fprintf(w, "Branches only in release: %d (%.1f%%)\n", stats.ReleaseOnlyCount, stats.ReleaseOnlyPercentage)
	fmt.Fprintln(w, rule)

	printPreview(w, "Branches in main", report.Main)
	printPreview(w, "Branches in release", report.Release)
	printPreview(w, "Common branches", report.Common)
}

func printAnalysisDate(w io.Writer, date string) {
	if date != "" && date != lineage.LatestMarker {
		fmt.Fprintf(w, "Analysis Date: %s\n", date)
	}
}

func printPreview(w io.Writer, title string, names []string) {
	fmt.Fprintf(w, "\n%s (first %d):\n", title, previewSize)
	for _, name := range names[:min(len(names), previewSize)] {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	if len(names) > previewSize {
		fmt.Fprintf(w, "  ... and %d more\n", len(names)-previewSize)
	}
}

func printPartial(w io.Writer, report *lineage.AnalysisReport) {
	fmt.Fprintf(w, "\nPartial analysis for %s\n", report.Repository)
	printAnalysisDate(w, report.AnalysisDate)
	for _, failure := range report.Failures {
		fmt.Fprintf(w, "Failed to collect %s branch %q: %s\n", failure.Target, failure.Branch, failure.Error)
	}
	if report.Main != nil {
		fmt.Fprintf(w, "Main: %d\n", len(report.Main))
	}
	if report.Release != nil {
		fmt.Fprintf(w, "Release: %d\n", len(report.Release))
	}
}
