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

package config_test

import (
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Token = "test-token"
	cfg.Repository = "test-owner/test-repo"
	return cfg
}

var _ = Describe("Config", func() {
	Describe("NewDefaultConfig", func() {
		It("should return a new config with default values", func() {
			cfg := config.NewDefaultConfig()

			Expect(cfg).NotTo(BeNil())
			Expect(cfg.Platform).To(Equal("github"))
			Expect(cfg.MainBranch).To(Equal("main"))
			Expect(cfg.ReleaseBranch).To(Equal("release"))
			Expect(cfg.BranchPrefix).To(Equal("feature/"))
			Expect(cfg.Format).To(Equal("json"))
			Expect(cfg.PerPage).To(Equal(100))
			Expect(cfg.Date).To(BeEmpty())
			Expect(cfg.AllowPartial).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		DescribeTable("should validate configuration correctly",
			func(mutate func(*config.Config), expectedError error) {
				cfg := validConfig()
				mutate(cfg)
				err := cfg.Validate()

				if expectedError == nil {
					Expect(err).To(BeNil())
				} else {
					Expect(err).To(MatchError(expectedError))
				}
			},
			Entry("valid configuration", func(c *config.Config) {}, nil),
			Entry("valid gitlab configuration", func(c *config.Config) {
				c.Platform = "gitlab"
				c.Repository = "group/sub/project"
			}, nil),
			Entry("valid cutoff date", func(c *config.Config) { c.Date = "2024-01-01" }, nil),
			Entry("missing platform", func(c *config.Config) { c.Platform = "" }, config.ErrMissingPlatform),
			Entry("unsupported platform", func(c *config.Config) { c.Platform = "bitbucket" }, config.ErrUnsupportedPlatform),
			Entry("missing token", func(c *config.Config) { c.Token = "" }, config.ErrMissingToken),
			Entry("missing repository", func(c *config.Config) { c.Repository = "" }, config.ErrMissingRepository),
			Entry("missing main branch", func(c *config.Config) { c.MainBranch = "" }, config.ErrMissingMainBranch),
			Entry("missing release branch", func(c *config.Config) { c.ReleaseBranch = "" }, config.ErrMissingReleaseBranch),
			Entry("identical branches", func(c *config.Config) { c.ReleaseBranch = "main" }, config.ErrIdenticalBranches),
			Entry("missing branch prefix", func(c *config.Config) { c.BranchPrefix = "" }, config.ErrMissingBranchPrefix),
			Entry("invalid cutoff", func(c *config.Config) { c.Date = "yesterday" }, config.ErrInvalidCutoff),
			Entry("impossible calendar date", func(c *config.Config) { c.Date = "2024-02-30" }, config.ErrInvalidCutoff),
			Entry("negative fetch timeout", func(c *config.Config) { c.FetchTimeout = -time.Second }, config.ErrInvalidFetchTimeout),
			Entry("per page too large", func(c *config.Config) { c.PerPage = 101 }, config.ErrInvalidPerPage),
			Entry("per page zero", func(c *config.Config) { c.PerPage = 0 }, config.ErrInvalidPerPage),
			Entry("negative request rate", func(c *config.Config) { c.RequestsPerSecond = -1 }, config.ErrInvalidRequestRate),
			Entry("unsupported format", func(c *config.Config) { c.Format = "xml" }, config.ErrUnsupportedFormat),
		)
	})

	Describe("ParseCutoff", func() {
		DescribeTable("parses supported layouts",
			func(value string, expected time.Time) {
				parsed, err := config.ParseCutoff(value)
				Expect(err).NotTo(HaveOccurred())
				Expect(parsed.Equal(expected)).To(BeTrue(), "got %s", parsed)
			},
			Entry("plain date is midnight UTC", "2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			Entry("RFC3339 with zone", "2024-01-01T12:30:00+02:00", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)),
			Entry("timestamp without zone", "2024-01-01T12:30:00", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)),
			Entry("surrounding whitespace", " 2024-06-15\n", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)),
		)

		It("rejects garbage with ErrInvalidCutoff", func() {
			_, err := config.ParseCutoff("01/02/2024")
			Expect(err).To(MatchError(config.ErrInvalidCutoff))
			Expect(err.Error()).To(ContainSubstring("01/02/2024"))
		})
	})

	Describe("CutoffTime", func() {
		It("returns nil without a cutoff", func() {
			cfg := validConfig()
			cutoff, err := cfg.CutoffTime()
			Expect(err).NotTo(HaveOccurred())
			Expect(cutoff).To(BeNil())
			Expect(cfg.HasCutoff()).To(BeFalse())
		})

		It("returns the parsed instant", func() {
			cfg := validConfig()
			cfg.Date = "2023-12-31"
			cutoff, err := cfg.CutoffTime()
			Expect(err).NotTo(HaveOccurred())
			Expect(*cutoff).To(Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("OutputPath", func() {
		DescribeTable("derives the output file name",
			func(mutate func(*config.Config), expected string) {
				cfg := validConfig()
				mutate(cfg)
				Expect(cfg.OutputPath()).To(Equal(expected))
			},
			Entry("latest analysis", func(c *config.Config) {}, "branch_data.json"),
			Entry("dated analysis", func(c *config.Config) { c.Date = "2024-01-01" }, "branch_data_20240101.json"),
			Entry("yaml format", func(c *config.Config) { c.Format = "yaml" }, "branch_data.yaml"),
			Entry("explicit output wins", func(c *config.Config) {
				c.Date = "2024-01-01"
				c.Output = "out/report.json"
			}, "out/report.json"),
		)
	})

	Describe("DebugString", func() {
		It("redacts the token", func() {
			cfg := validConfig()
			cfg.Token = "super-secret"

			debug := cfg.DebugString()
			Expect(debug).NotTo(ContainSubstring("super-secret"))
			Expect(debug).To(ContainSubstring("[REDACTED]"))
			Expect(debug).To(ContainSubstring("test-owner/test-repo"))
			Expect(cfg.Token).To(Equal("super-secret"))
		})
	})
})
