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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"gopkg.in/yaml.v3"
)

// ErrInvalidReport is returned when a stored report cannot be analyzed
var ErrInvalidReport = errors.New("invalid report")

// RequiredKeys must be present in a stored report before it is analyzed again
var RequiredKeys = []string{"main", "release", "common", "mainOnly", "releaseOnly"}

// UnknownRepository is used for stored reports without a repository
const UnknownRepository = "Unknown"

// Load reads a stored report, JSON or YAML by extension, and checks that it
// carries the required keys of a complete analysis.
func Load(path string) (*lineage.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	unmarshal := json.Unmarshal
	if FormatFromPath(path, FormatJSON) == FormatYAML {
		unmarshal = yaml.Unmarshal
	}

	keys := map[string]any{}
	if err := unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid report: %w", ErrInvalidReport, path, err)
	}
	for _, key := range RequiredKeys {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q in %s", ErrInvalidReport, key, path)
		}
	}

	report := &lineage.AnalysisReport{}
	if err := unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid report: %w", ErrInvalidReport, path, err)
	}
	if report.Partial {
		return nil, fmt.Errorf("%w: %s is a partial report", ErrInvalidReport, path)
	}
	if report.Repository == "" {
		report.Repository = UnknownRepository
	}
	return report, nil
}

// AnalyzedPath derives the output path of a re-analyzed report:
// branch_data_<suffix> becomes analyzed_branch_data_<suffix>, anything else
// becomes analyzed_branch_data with the input extension.
func AnalyzedPath(input string) string {
	dir, base := filepath.Split(input)
	if suffix, ok := strings.CutPrefix(base, "branch_data_"); ok && suffix != "" {
		return filepath.Join(dir, "analyzed_branch_data_"+suffix)
	}
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".json"
	}
	return filepath.Join(dir, "analyzed_branch_data"+ext)
}
