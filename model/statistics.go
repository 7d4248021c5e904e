package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statistic aggregates per-school usage counters. One row per school.
type Statistic struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SchoolID             uint      `gorm:"uniqueIndex;not null" json:"school_id"`
	TotalLogins          int64     `gorm:"not null;default:0" json:"total_logins"`
	TotalQuestions       int64     `gorm:"not null;default:0" json:"total_questions"`
	TotalSessionDuration int64     `gorm:"not null;default:0" json:"total_session_duration"`
	LastUpdated          time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

func (Statistic) TableName() string {
	return "statistics"
}

// IncrementQuestions bumps total_questions for the school in a single upsert.
// The row is created at one if absent, incremented in place if present, so
// concurrent increments never lose updates.
func IncrementQuestions(db *gorm.DB, schoolID uint) error {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "school_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_questions": gorm.Expr("total_questions + 1"),
		}),
	}).Create(&Statistic{SchoolID: schoolID, TotalQuestions: 1}).Error
	if err != nil {
		return fmt.Errorf("failed to increment questions: %w", err)
	}
	return nil
}

// IncrementLogins bumps total_logins, same upsert shape as IncrementQuestions.
func IncrementLogins(db *gorm.DB, schoolID uint) error {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "school_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_logins": gorm.Expr("total_logins + 1"),
		}),
	}).Create(&Statistic{SchoolID: schoolID, TotalLogins: 1}).Error
	if err != nil {
		return fmt.Errorf("failed to increment logins: %w", err)
	}
	return nil
}

// GetOrInitStatistics returns the school's counters, creating a zero row the
// first time a school is asked about.
func GetOrInitStatistics(db *gorm.DB, schoolID uint) (*Statistic, error) {
	var stats Statistic
	err := db.Where("school_id = ?", schoolID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = Statistic{SchoolID: schoolID}
		if err := db.Create(&stats).Error; err != nil {
			return nil, fmt.Errorf("failed to init statistics: %w", err)
		}
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &stats, nil
}

// GetAllStatistics lists every school's counters, for the daily usage report.
func GetAllStatistics(db *gorm.DB) ([]Statistic, error) {
	var stats []Statistic
	if err := db.Order("school_id").Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return stats, nil
}
