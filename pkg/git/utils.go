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
	"fmt"
	"strings"
)

// UnknownAuthor is reported for pull requests without an identifiable author
const UnknownAuthor = "Unknown"

// AuthorOrUnknown returns login, or UnknownAuthor when login is empty
func AuthorOrUnknown(login string) string {
	if strings.TrimSpace(login) == "" {
		return UnknownAuthor
	}
	return login
}

// SplitRepository splits an "owner/repo" identifier into its two parts
func SplitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", repository)
	}
	return owner, repo, nil
}
