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

package git

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the platform cannot be reached or rejects the credentials
	ErrSourceUnavailable = errors.New("pull request source unavailable")
	// ErrMalformedRecord marks a single pull request entry missing required fields
	ErrMalformedRecord = errors.New("malformed pull request record")
)

// MalformedRecordError describes a pull request that could not be converted
type MalformedRecordError struct {
	Number int
	Reason string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("pull request #%d: %s", e.Number, e.Reason)
}

// Is reports ErrMalformedRecord as the error kind
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Unavailable wraps err as ErrSourceUnavailable keeping the original cause
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, op, err)
}
