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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables
const EnvPrefix = "LINEAGE"

// envFallbacks maps flags to environment variables read when the
// LINEAGE_ prefixed variable is not set
var envFallbacks = map[string]string{
	"token":          "GITHUB_TOKEN",
	"repo":           "GITHUB_REPO",
	"main-branch":    "MAIN_BRANCH",
	"release-branch": "RELEASE_BRANCH",
}

func init() {
	cobra.OnInitialize(initConfig)

	// Initialize AnalyzeOption and add flags
	analyzeOption = NewAnalyzeOption()
	analyzeOption.AddFlags(rootCmd.Flags())

	// Add global version flag
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Bind flags to viper for environment variable support
	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	bindEnvFallbacks(viper.GetViper())
}

// bindEnvFallbacks binds each fallback after the prefixed name so the prefixed one wins
func bindEnvFallbacks(v *viper.Viper) {
	for key, fallback := range envFallbacks {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		v.BindEnv(key, prefixed, fallback)
	}
}
