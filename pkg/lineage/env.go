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

// CI environment variables copied into the statistics block
const (
	EnvRepository = "GITHUB_REPOSITORY"
	EnvWorkflow   = "GITHUB_WORKFLOW"
	EnvRunID      = "GITHUB_RUN_ID"
	EnvCommit     = "GITHUB_SHA"
)

// EnvironmentSnapshot is the CI run metadata present when the analysis ran.
// A nil field was not set in the environment.
type EnvironmentSnapshot struct {
	Repository *string
	Workflow   *string
	RunID      *string
	Commit     *string
}

// LookupFunc looks up an environment variable, os.LookupEnv in production
type LookupFunc func(key string) (string, bool)

// SnapshotEnvironment reads the CI metadata through lookup
func SnapshotEnvironment(lookup LookupFunc) EnvironmentSnapshot {
	get := func(key string) *string {
		if lookup == nil {
			return nil
		}
		if value, ok := lookup(key); ok {
			return &value
		}
		return nil
	}
	return EnvironmentSnapshot{
		Repository: get(EnvRepository),
		Workflow:   get(EnvWorkflow),
		RunID:      get(EnvRunID),
		Commit:     get(EnvCommit),
	}
}
