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

import "slices"

// BranchSet is a set of branch names compared by exact, case-sensitive equality
type BranchSet map[string]struct{}

// NewBranchSet builds a set from names, collapsing duplicates
func NewBranchSet(names []string) BranchSet {
	set := make(BranchSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set
func (s BranchSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct names
func (s BranchSet) Len() int {
	return len(s)
}

// Sorted renders the set as an ascending list, never nil
func (s BranchSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClassificationResult partitions branch names by where they were merged.
// The three sets are pairwise disjoint.
type ClassificationResult struct {
	Common      BranchSet
	MainOnly    BranchSet
	ReleaseOnly BranchSet
}

// Classify reduces the two name collections to common, main-only and release-only sets
func Classify(mainNames, releaseNames []string) ClassificationResult {
	mainSet := NewBranchSet(mainNames)
	releaseSet := NewBranchSet(releaseNames)

	result := ClassificationResult{
		Common:      BranchSet{},
		MainOnly:    BranchSet{},
		ReleaseOnly: BranchSet{},
	}
	for name := range mainSet {
		if releaseSet.Has(name) {
			result.Common[name] = struct{}{}
		} else {
			result.MainOnly[name] = struct{}{}
		}
	}
	for name := range releaseSet {
		if !mainSet.Has(name) {
			result.ReleaseOnly[name] = struct{}{}
		}
	}
	return result
}

// Total returns the number of distinct names across both branches
func (r ClassificationResult) Total() int {
	return r.Common.Len() + r.MainOnly.Len() + r.ReleaseOnly.Len()
}
