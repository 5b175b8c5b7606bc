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

package history

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintTimeline writes the snapshots as an aligned table
func PrintTimeline(w io.Writer, repository string, snapshots []Snapshot, latest *Snapshot) {
	fmt.Fprintf(w, "Timeline for %s\n", repository)
	if len(snapshots) == 0 && latest == nil {
		fmt.Fprintln(w, "No analyses recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTOTAL\tMAIN\tRELEASE\tCOMMON\tMAIN ONLY\tRELEASE ONLY")
	row := func(s Snapshot) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d (%.1f%%)\t%d (%.1f%%)\t%d (%.1f%%)\n",
			s.AnalysisDate, s.TotalBranches, s.MainCount, s.ReleaseCount,
			s.CommonCount, s.CommonPercentage,
			s.MainOnlyCount, s.MainOnlyPercentage,
			s.ReleaseOnlyCount, s.ReleaseOnlyPercentage)
	}
	for _, snapshot := range snapshots {
		row(snapshot)
	}
	if latest != nil {
		row(*latest)
	}
	tw.Flush()
}
