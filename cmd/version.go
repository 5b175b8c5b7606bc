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
	"encoding/json"
	"fmt"
	"io"

	"github.com/AlaudaDevops/toolbox/branch-lineage/internal/version"
	"github.com/spf13/cobra"
)

var outputFormat string

// getVersion is replaced in tests
var getVersion = version.Get

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long: `Display detailed version information including version number,
git commit, build date, Go version, and platform information.

Examples:
  branch-lineage version              # Display detailed version info
  branch-lineage version --output json # Display version info in JSON format`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")
}

func runVersion(out io.Writer) error {
	versionInfo := getVersion()

	switch outputFormat {
	case "json":
		return printVersionJSON(out, versionInfo)
	case "text":
		return printVersionText(out, versionInfo)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", outputFormat)
	}
}

func printVersionText(out io.Writer, info version.Info) error {
	fmt.Fprintf(out, "Branch Lineage Version Information:\n")
	fmt.Fprintf(out, "  Version:     %s\n", info.Version)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "  Git Commit:  %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "  Build Date:  %s\n", info.BuildDate)
	}
	fmt.Fprintf(out, "  Go Version:  %s\n", info.GoVersion)
	fmt.Fprintf(out, "  Compiler:    %s\n", info.Compiler)
	fmt.Fprintf(out, "  Platform:    %s\n", info.Platform)
	return nil
}

func printVersionJSON(out io.Writer, info version.Info) error {
	output, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version info to JSON: %w", err)
	}
	fmt.Fprintln(out, string(output))
	return nil
}
