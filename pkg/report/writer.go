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

// Package report persists analysis reports and prints their summaries
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON encodes reports as indented JSON
	FormatJSON = "json"
	// FormatYAML encodes reports as YAML
	FormatYAML = "yaml"
)

var (
	// ErrPersistence is returned when a report cannot be written
	ErrPersistence = errors.New("failed to persist report")
	// ErrUnsupportedFormat is returned for formats other than json and yaml
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// rename publishes the temporary file, replaced in tests
var rename = os.Rename

// Writer publishes reports atomically: the report is written to a temporary
// file in the target directory and renamed over the destination, so a failed
// write leaves any previous report untouched.
type Writer struct {
	*logrus.Logger
}

// NewWriter creates a Writer
func NewWriter(logger *logrus.Logger) *Writer {
	return &Writer{Logger: logger}
}

// Encode renders the report in the given format
func Encode(report *lineage.AnalysisReport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Write encodes report and publishes it at path
func (w *Writer) Write(path string, report *lineage.AnalysisReport, format string) error {
	data, err := Encode(report, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrPersistence, path, err)
	}

	w.Debugf("Wrote %d bytes to %s", len(data), path)
	return nil
}

// FormatFromPath picks the format from the file extension, fallback otherwise
func FormatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return fallback
	}
}
