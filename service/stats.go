package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

// RecordResult makes the best-effort nature of usage bookkeeping an explicit
// contract instead of a swallowed error.
type RecordResult int

const (
	// RecordOK means the counter was incremented.
	RecordOK RecordResult = iota
	// RecordSkipped means the user has no school association; nothing to count.
	RecordSkipped
	// RecordFailed means the increment was attempted and failed. The failure
	// is logged and must never surface to the chat caller.
	RecordFailed
)

// QuestionRecorder tallies asked questions per school.
type QuestionRecorder interface {
	RecordQuestion(ctx context.Context, userID uint) RecordResult
}

// StatsService writes usage counters to the relational store. It shares no
// transaction with the conversation store; consistency between the two is
// eventual and best effort.
type StatsService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewStatsService(db *gorm.DB, logger *logrus.Logger) *StatsService {
	return &StatsService{db: db, logger: logger}
}

func (s *StatsService) RecordQuestion(ctx context.Context, userID uint) RecordResult {
	schoolID, err := model.GetUserSchoolID(s.db.WithContext(ctx), userID)
	if err != nil {
		s.logger.Warnf("resolve school for user %d failed: %v", userID, err)
		return RecordFailed
	}
	if schoolID == 0 {
		return RecordSkipped
	}
	if err := model.IncrementQuestions(s.db.WithContext(ctx), schoolID); err != nil {
		s.logger.Warnf("increment questions for school %d failed: %v", schoolID, err)
		return RecordFailed
	}
	return RecordOK
}

// RecordLogin bumps the school's login counter and opens a session row.
// Best effort, same isolation as RecordQuestion.
func (s *StatsService) RecordLogin(ctx context.Context, userID uint, schoolID uint) RecordResult {
	if schoolID == 0 {
		return RecordSkipped
	}
	db := s.db.WithContext(ctx)
	if err := model.IncrementLogins(db, schoolID); err != nil {
		s.logger.Warnf("increment logins for school %d failed: %v", schoolID, err)
		return RecordFailed
	}
	session := model.UserSession{UserID: userID, SchoolID: schoolID}
	if err := model.CreateUserSession(db, &session); err != nil {
		s.logger.Warnf("create session for user %d failed: %v", userID, err)
		return RecordFailed
	}
	return RecordOK
}
