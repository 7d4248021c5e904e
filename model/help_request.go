package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type HelpRequestStatus string

const (
	HelpRequestPending   HelpRequestStatus = "pending"
	HelpRequestResponded HelpRequestStatus = "responded"
	HelpRequestResolved  HelpRequestStatus = "resolved"
)

type HelpRequest struct {
	ID              uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint              `gorm:"index;not null" json:"student_id"`
	StudentName     string            `gorm:"type:varchar(255);not null" json:"student_name"`
	Subject         string            `gorm:"type:varchar(255);not null" json:"subject"`
	Message         string            `gorm:"type:text;not null" json:"message"`
	Status          HelpRequestStatus `gorm:"type:varchar(32);default:pending" json:"status"`
	TeacherID       *uint             `json:"teacher_id,omitempty"`
	TeacherResponse string            `gorm:"type:text" json:"teacher_response"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt     *time.Time        `json:"responded_at,omitempty"`
}

func (HelpRequest) TableName() string {
	return "help_requests"
}

// HelpRequestMessage is one entry in the student/teacher thread under a request.
type HelpRequestMessage struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HelpRequestID uint      `gorm:"index;not null" json:"help_request_id"`
	Sender        string    `gorm:"type:varchar(32);not null" json:"sender"`
	SenderID      uint      `gorm:"not null" json:"sender_id"`
	SenderName    string    `gorm:"type:varchar(255);not null" json:"sender_name"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (HelpRequestMessage) TableName() string {
	return "help_request_messages"
}

func CreateHelpRequest(db *gorm.DB, request *HelpRequest) error {
	if err := db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create help request: %w", err)
	}
	return nil
}

func GetHelpRequests(db *gorm.DB) ([]HelpRequest, error) {
	var requests []HelpRequest
	if err := db.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return requests, nil
}

func GetHelpRequestsByStudent(db *gorm.DB, studentID uint) ([]HelpRequest, error) {
	var requests []HelpRequest
	err := db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return requests, nil
}

func GetHelpRequest(db *gorm.DB, id uint) (*HelpRequest, error) {
	var request HelpRequest
	if err := db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("help request not found")
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &request, nil
}

func RespondToHelpRequest(db *gorm.DB, id uint, teacherID uint, response string) error {
	now := time.Now()
	result := db.Model(&HelpRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"teacher_id":       teacherID,
		"teacher_response": response,
		"status":           HelpRequestResponded,
		"responded_at":     now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to respond to help request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("help request not found")
	}
	return nil
}

func ResolveHelpRequest(db *gorm.DB, id uint) error {
	result := db.Model(&HelpRequest{}).Where("id = ?", id).Update("status", HelpRequestResolved)
	if result.Error != nil {
		return fmt.Errorf("failed to resolve help request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("help request not found")
	}
	return nil
}

func GetHelpRequestMessages(db *gorm.DB, requestID uint) ([]HelpRequestMessage, error) {
	var messages []HelpRequestMessage
	err := db.Where("help_request_id = ?", requestID).Order("created_at ASC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return messages, nil
}

// AddHelpRequestMessage appends to the thread and flips the request status:
// a teacher reply marks it responded, a student reply reopens it as pending.
func AddHelpRequestMessage(db *gorm.DB, message *HelpRequestMessage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to add message: %w", err)
		}
		switch message.Sender {
		case "teacher":
			now := time.Now()
			err := tx.Model(&HelpRequest{}).Where("id = ?", message.HelpRequestID).Updates(map[string]interface{}{
				"status":       HelpRequestResponded,
				"teacher_id":   message.SenderID,
				"responded_at": now,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update request status: %w", err)
			}
		case "student":
			err := tx.Model(&HelpRequest{}).Where("id = ?", message.HelpRequestID).
				Update("status", HelpRequestPending).Error
			if err != nil {
				return fmt.Errorf("failed to update request status: %w", err)
			}
		}
		return nil
	})
}
