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

package lineage_test

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"time"

	pkgtesting "github.com/AlaudaDevops/pkg/testing"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	mock_git "github.com/AlaudaDevops/toolbox/branch-lineage/testing/mock/github.com/AlaudaDevops/toolbox/branch-lineage/pkg/git"
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type scenarioFixture struct {
	Cutoff   string               `json:"cutoff" yaml:"cutoff"`
	Main     []pullRequestFixture `json:"main" yaml:"main"`
	Release  []pullRequestFixture `json:"release" yaml:"release"`
	Expected expectedFixture      `json:"expected" yaml:"expected"`
}

type expectedFixture struct {
	Main        []string     `json:"main" yaml:"main"`
	Release     []string     `json:"release" yaml:"release"`
	Common      []string     `json:"common" yaml:"common"`
	MainOnly    []string     `json:"mainOnly" yaml:"mainOnly"`
	ReleaseOnly []string     `json:"releaseOnly" yaml:"releaseOnly"`
	Stats       statsFixture `json:"stats" yaml:"stats"`
}

type statsFixture struct {
	TotalBranches         int     `json:"totalBranches" yaml:"totalBranches"`
	MainCount             int     `json:"mainCount" yaml:"mainCount"`
	ReleaseCount          int     `json:"releaseCount" yaml:"releaseCount"`
	CommonCount           int     `json:"commonCount" yaml:"commonCount"`
	MainOnlyCount         int     `json:"mainOnlyCount" yaml:"mainOnlyCount"`
	ReleaseOnlyCount      int     `json:"releaseOnlyCount" yaml:"releaseOnlyCount"`
	CommonPercentage      float64 `json:"commonPercentage" yaml:"commonPercentage"`
	MainOnlyPercentage    float64 `json:"mainOnlyPercentage" yaml:"mainOnlyPercentage"`
	ReleaseOnlyPercentage float64 `json:"releaseOnlyPercentage" yaml:"releaseOnlyPercentage"`
}

var _ = Describe("Collector", func() {
	var (
		ctrl    *gomock.Controller
		source  *mock_git.MockPullRequestSource
		logger  *logrus.Logger
		hook    *test.Hook
		metrics *recordingMetrics
		now     time.Time
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		source = mock_git.NewMockPullRequestSource(ctrl)
		logger, hook = test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		metrics = newRecordingMetrics()
		now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	newCollector := func(timeout time.Duration) *lineage.Collector {
		return lineage.NewCollector(logger, source, lineage.CollectorOptions{
			BranchPrefix: "feature/",
			FetchTimeout: timeout,
			Metrics:      metrics,
		})
	}

	DescribeTable("builds the report of a repository",
		func(file string) {
			fixture := scenarioFixture{}
			pkgtesting.MustLoadYaml(filepath.Join("testdata", "scenarios", file), &fixture)

			var cutoff *time.Time
			if fixture.Cutoff != "" {
				parsed, err := time.Parse(time.DateOnly, fixture.Cutoff)
				Expect(err).NotTo(HaveOccurred())
				cutoff = &parsed
			}

			source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").
				Return(seq(toPullRequests(fixture.Main, "main")))
			source.EXPECT().ListClosedPullRequests(gomock.Any(), "release-1.0").
				Return(seq(toPullRequests(fixture.Release, "release-1.0")))

			result, err := newCollector(time.Minute).Collect(context.Background(), "main", "release-1.0", cutoff)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Complete()).To(BeTrue())

			report := lineage.BuildReport(result, nil, lineage.ReportMeta{
				Repository:   "owner/repo",
				AnalysisDate: fixture.Cutoff,
				GeneratedAt:  now,
			}, lineage.EnvironmentSnapshot{}, now)

			expected := fixture.Expected
			Expect(report.Partial).To(BeFalse())
			Expect(report.Failures).To(BeEmpty())
			Expect(report.Main).To(Equal(orEmpty(expected.Main)))
			Expect(report.Release).To(Equal(orEmpty(expected.Release)))
			Expect(report.Common).To(Equal(orEmpty(expected.Common)))
			Expect(report.MainOnly).To(Equal(orEmpty(expected.MainOnly)))
			Expect(report.ReleaseOnly).To(Equal(orEmpty(expected.ReleaseOnly)))
			Expect(report.MainDetails).To(HaveLen(len(expected.Main)))
			Expect(report.ReleaseDetails).To(HaveLen(len(expected.Release)))

			Expect(report.Stats).NotTo(BeNil())
			Expect(statsFixture{
				TotalBranches:         report.Stats.TotalBranches,
				MainCount:             report.Stats.MainCount,
				ReleaseCount:          report.Stats.ReleaseCount,
				CommonCount:           report.Stats.CommonCount,
				MainOnlyCount:         report.Stats.MainOnlyCount,
				ReleaseOnlyCount:      report.Stats.ReleaseOnlyCount,
				CommonPercentage:      report.Stats.CommonPercentage,
				MainOnlyPercentage:    report.Stats.MainOnlyPercentage,
				ReleaseOnlyPercentage: report.Stats.ReleaseOnlyPercentage,
			}).To(Equal(expected.Stats))
			Expect(report.Stats.Repository).To(Equal("owner/repo"))
			Expect(report.Stats.AnalysisTime).To(Equal(now))
			if fixture.Cutoff == "" {
				Expect(report.AnalysisDate).To(Equal(lineage.LatestMarker))
			} else {
				Expect(report.AnalysisDate).To(Equal(fixture.Cutoff))
			}
		},
		Entry("overlapping branches", "overlap.yaml"),
		Entry("no merges on either side", "empty.yaml"),
		Entry("inclusive cutoff boundary", "cutoff.yaml"),
		Entry("unmerged, foreign and repeated branches", "filtering.yaml"),
		Entry("percentages rounded to one decimal", "thirds.yaml"),
	)

	It("keeps merge details in source order", func() {
		first := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").Return(seq([]*git.PullRequest{
			{Number: 7, Title: "Add z", Merged: true, MergedAt: &first, HeadRef: "feature/z", URL: "https://example.com/7", Author: "carol"},
			{Number: 5, Title: "Add a", Merged: true, MergedAt: &first, HeadRef: "feature/a"},
		}))
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "release").Return(seq(nil))

		result, err := newCollector(0).Collect(context.Background(), "main", "release", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Main.Records).To(Equal([]lineage.MergeRecord{
			{BranchName: "feature/z", MergedAt: first, PRNumber: 7, Title: "Add z", URL: "https://example.com/7", Author: "carol"},
			{BranchName: "feature/a", MergedAt: first, PRNumber: 5, Title: "Add a", Author: git.UnknownAuthor},
		}))
		Expect(result.Release.Records).To(BeEmpty())
	})

	It("skips malformed records and keeps going", func() {
		mergedAt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").Return(func(yield func(*git.PullRequest, error) bool) {
			_ = yield(nil, &git.MalformedRecordError{Number: 3, Reason: "missing head ref"}) &&
				yield(&git.PullRequest{Number: 4, Merged: true, HeadRef: "feature/no-time"}, nil) &&
				yield(merged(5, "feature/ok", mergedAt), nil)
		})
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "release").Return(seq(nil))

		result, err := newCollector(0).Collect(context.Background(), "main", "release", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Main.BranchNames()).To(Equal([]string{"feature/ok"}))
		Expect(metrics.outcomes[lineage.TargetMain]).To(Equal(map[string]int{
			string(lineage.SkipMalformed): 2,
			"accepted":                    1,
		}))

		warnings := 0
		for _, entry := range hook.AllEntries() {
			if entry.Level == logrus.WarnLevel {
				warnings++
			}
		}
		Expect(warnings).To(Equal(2))
	})

	It("reports a fatal source error for its branch only", func() {
		unavailable := git.Unavailable("list pull requests of owner/repo", errors.New("401 Bad credentials"))
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").
			Return(seq([]*git.PullRequest{merged(1, "feature/a", now)}, unavailable))
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "release").
			Return(seq([]*git.PullRequest{merged(2, "feature/a", now)}))

		result, err := newCollector(0).Collect(context.Background(), "main", "release", nil)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, git.ErrSourceUnavailable)).To(BeTrue())

		var collectErr *lineage.CollectError
		Expect(errors.As(err, &collectErr)).To(BeTrue())
		Expect(collectErr.Failed(lineage.TargetMain)).To(BeTrue())
		Expect(collectErr.Failed(lineage.TargetRelease)).To(BeFalse())

		var branchErr *lineage.BranchError
		Expect(errors.As(err, &branchErr)).To(BeTrue())
		Expect(branchErr.Branch).To(Equal("main"))

		Expect(result.Main).To(BeNil())
		Expect(result.Release).NotTo(BeNil())
		Expect(result.Release.BranchNames()).To(Equal([]string{"feature/a"}))
		Expect(metrics.durations).To(Equal(map[lineage.Target]string{
			lineage.TargetMain:    "error",
			lineage.TargetRelease: "success",
		}))
	})

	It("times out one branch without holding back the other", func() {
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").
			DoAndReturn(func(ctx context.Context, _ string) iter.Seq2[*git.PullRequest, error] {
				return blockingSeq(ctx)
			})
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "release").
			Return(seq([]*git.PullRequest{merged(2, "feature/b", now)}))

		started := time.Now()
		result, err := newCollector(50*time.Millisecond).Collect(context.Background(), "main", "release", nil)
		Expect(time.Since(started)).To(BeNumerically("<", 5*time.Second))

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("timed out after 50ms"))
		Expect(result.Main).To(BeNil())
		Expect(result.Release.BranchNames()).To(Equal([]string{"feature/b"}))
	})

	It("fails both sides when the parent context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		source.EXPECT().ListClosedPullRequests(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string) iter.Seq2[*git.PullRequest, error] {
				return blockingSeq(ctx)
			}).Times(2)

		result, err := newCollector(time.Minute).Collect(ctx, "main", "release", nil)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(result.Main).To(BeNil())
		Expect(result.Release).To(BeNil())

		var collectErr *lineage.CollectError
		Expect(errors.As(err, &collectErr)).To(BeTrue())
		Expect(collectErr.Failures).To(HaveLen(2))
	})

	It("treats a listing that stops silently after cancellation as failed", func() {
		ctx, cancel := context.WithCancel(context.Background())
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "main").
			DoAndReturn(func(context.Context, string) iter.Seq2[*git.PullRequest, error] {
				return func(func(*git.PullRequest, error) bool) { cancel() }
			})
		source.EXPECT().ListClosedPullRequests(gomock.Any(), "release").Return(seq(nil)).AnyTimes()

		result, err := newCollector(0).Collect(ctx, "main", "release", nil)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(result.Main).To(BeNil())
	})
})
