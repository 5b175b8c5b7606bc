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

// Package history keeps a SQLite timeline of analysis runs
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlaudaDevops/toolbox/branch-lineage/pkg/lineage"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrIncompleteReport is returned when a report without statistics is recorded
var ErrIncompleteReport = errors.New("report has no statistics")

// Snapshot is the stored summary of one analysis.
// One row is kept per repository and analysis date; re-running an analysis replaces it.
type Snapshot struct {
	ID                    uint      `gorm:"primaryKey" json:"-" yaml:"-"`
	Repository            string    `gorm:"column:repository;not null;uniqueIndex:idx_repository_date" json:"repository" yaml:"repository"`
	AnalysisDate          string    `gorm:"column:analysis_date;not null;uniqueIndex:idx_repository_date" json:"analysis_date" yaml:"analysis_date"`
	MainBranch            string    `gorm:"column:main_branch" json:"main_branch" yaml:"main_branch"`
	ReleaseBranch         string    `gorm:"column:release_branch" json:"release_branch" yaml:"release_branch"`
	TotalBranches         int       `gorm:"column:total_branches" json:"total_branches" yaml:"total_branches"`
	MainCount             int       `gorm:"column:main_count" json:"main_count" yaml:"main_count"`
	ReleaseCount          int       `gorm:"column:release_count" json:"release_count" yaml:"release_count"`
	CommonCount           int       `gorm:"column:common_count" json:"common_count" yaml:"common_count"`
	MainOnlyCount         int       `gorm:"column:main_only_count" json:"main_only_count" yaml:"main_only_count"`
	ReleaseOnlyCount      int       `gorm:"column:release_only_count" json:"release_only_count" yaml:"release_only_count"`
	CommonPercentage      float64   `gorm:"column:common_percentage" json:"common_percentage" yaml:"common_percentage"`
	MainOnlyPercentage    float64   `gorm:"column:main_only_percentage" json:"main_only_percentage" yaml:"main_only_percentage"`
	ReleaseOnlyPercentage float64   `gorm:"column:release_only_percentage" json:"release_only_percentage" yaml:"release_only_percentage"`
	GeneratedAt           time.Time `gorm:"column:generated_at" json:"generated_at" yaml:"generated_at"`
	CreatedAt             time.Time `gorm:"column:created_at" json:"-" yaml:"-"`
	UpdatedAt             time.Time `gorm:"column:updated_at" json:"-" yaml:"-"`
}

// TableName overrides the gorm table name
func (Snapshot) TableName() string {
	return "analysis_snapshots"
}

// Store reads and writes snapshots
type Store struct {
	*logrus.Logger
	db *gorm.DB
}

// Open opens or creates the SQLite database at path and migrates the schema
func Open(log *logrus.Logger, path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database %s: %w", path, err)
	}
	return &Store{Logger: log, db: db}, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// NewSnapshot summarizes a complete report
func NewSnapshot(report *lineage.AnalysisReport, mainBranch, releaseBranch string) (*Snapshot, error) {
	if report.Partial || report.Stats == nil {
		return nil, ErrIncompleteReport
	}
	stats := report.Stats
	return &Snapshot{
		Repository:            report.Repository,
		AnalysisDate:          lineage.AnalysisDateMarker(report.AnalysisDate),
		MainBranch:            mainBranch,
		ReleaseBranch:         releaseBranch,
		TotalBranches:         stats.TotalBranches,
		MainCount:             stats.MainCount,
		ReleaseCount:          stats.ReleaseCount,
		CommonCount:           stats.CommonCount,
		MainOnlyCount:         stats.MainOnlyCount,
		ReleaseOnlyCount:      stats.ReleaseOnlyCount,
		CommonPercentage:      stats.CommonPercentage,
		MainOnlyPercentage:    stats.MainOnlyPercentage,
		ReleaseOnlyPercentage: stats.ReleaseOnlyPercentage,
		GeneratedAt:           report.Timestamp,
	}, nil
}

// Record stores the snapshot of a complete report
func (s *Store) Record(ctx context.Context, report *lineage.AnalysisReport, mainBranch, releaseBranch string) error {
	snapshot, err := NewSnapshot(report, mainBranch, releaseBranch)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "repository"}, {Name: "analysis_date"}},
		UpdateAll: true,
	}).Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to record snapshot of %s at %s: %w", snapshot.Repository, snapshot.AnalysisDate, err)
	}

	s.Debugf("Recorded snapshot of %s at %s", snapshot.Repository, snapshot.AnalysisDate)
	return nil
}

// Timeline returns the dated snapshots of repository ordered by analysis date.
// Undated "latest" runs are not part of the timeline.
func (s *Store) Timeline(ctx context.Context, repository string) ([]Snapshot, error) {
	var snapshots []Snapshot
	err := s.db.WithContext(ctx).
		Where("repository = ? AND analysis_date <> ?", repository, lineage.LatestMarker).
		Order("analysis_date ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline of %s: %w", repository, err)
	}
	return snapshots, nil
}

// Latest returns the most recent undated snapshot of repository, nil when there is none
func (s *Store) Latest(ctx context.Context, repository string) (*Snapshot, error) {
	var snapshot Snapshot
	err := s.db.WithContext(ctx).
		Where("repository = ? AND analysis_date = ?", repository, lineage.LatestMarker).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot of %s: %w", repository, err)
	}
	return &snapshot, nil
}
