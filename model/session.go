package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserSession records one login, for session-duration reporting.
type UserSession struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	SchoolID  uint      `gorm:"index;not null" json:"school_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

func CreateUserSession(db *gorm.DB, session *UserSession) error {
	if err := db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create user session: %w", err)
	}
	return nil
}
