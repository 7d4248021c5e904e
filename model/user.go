package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User 表示用户模型
type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Firstname  string    `gorm:"type:varchar(255);not null" json:"firstname"`
	Middlename string    `gorm:"type:varchar(255)" json:"middlename"`
	Lastname   string    `gorm:"type:varchar(255);not null" json:"lastname"`
	Email      string    `gorm:"type:varchar(255);not null;unique" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role       Role      `gorm:"type:varchar(64);default:student" json:"role"`
	SchoolID   *uint     `gorm:"index" json:"school_id,omitempty"`
	ClassID    *uint     `gorm:"index" json:"class_id,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func CreateUser(db *gorm.DB, user *User) error {
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func GetUser(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &user, nil
}

func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &user, nil
}

func UserExists(db *gorm.DB, email string) bool {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func GetUsersByRoles(db *gorm.DB, roles ...Role) ([]User, error) {
	var users []User
	if err := db.Where("role IN ?", roles).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *User) error {
	result := db.Model(&User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"firstname":  user.Firstname,
		"middlename": user.Middlename,
		"lastname":   user.Lastname,
		"email":      user.Email,
		"password":   user.Password,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

func UpdateUserName(db *gorm.DB, id uint, firstname, lastname string) error {
	result := db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"firstname": firstname,
		"lastname":  lastname,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user name: %w", result.Error)
	}
	return nil
}

func UpdateUserPassword(db *gorm.DB, id uint, hashedPassword string) error {
	if err := db.Model(&User{}).Where("id = ?", id).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func DeleteUser(db *gorm.DB, id uint) error {
	result := db.Delete(&User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// GetUserSchoolID resolves a user to their school. A user without a school
// association yields (0, nil).
func GetUserSchoolID(db *gorm.DB, userID uint) (uint, error) {
	var user User
	if err := db.Select("school_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("database query failed: %w", err)
	}
	if user.SchoolID == nil {
		return 0, nil
	}
	return *user.SchoolID, nil
}
