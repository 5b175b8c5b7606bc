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

package lineage

import (
	"fmt"
	"strings"
)

// BranchError labels a collection failure with the target it belongs to
type BranchError struct {
	Target Target
	Branch string
	Err    error
}

// Error implements the error interface
func (e *BranchError) Error() string {
	return fmt.Sprintf("%s branch %q: %v", e.Target, e.Branch, e.Err)
}

// Unwrap returns the underlying cause
func (e *BranchError) Unwrap() error {
	return e.Err
}

// CollectError reports the branches whose collection failed
type CollectError struct {
	Failures []*BranchError
}

// Error implements the error interface
func (e *CollectError) Error() string {
	messages := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		messages = append(messages, failure.Error())
	}
	return "failed to collect " + strings.Join(messages, "; ")
}

// Unwrap exposes every branch failure to errors.Is and errors.As
func (e *CollectError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure)
	}
	return errs
}

// Failed returns true when the target did not collect
func (e *CollectError) Failed(target Target) bool {
	for _, failure := range e.Failures {
		if failure.Target == target {
			return true
		}
	}
	return false
}
