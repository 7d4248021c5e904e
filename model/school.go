package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type School struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	ZipCode     string `gorm:"type:varchar(32)" json:"zip_code"`
	StreetName  string `gorm:"type:varchar(255)" json:"street_name"`
	HouseNumber string `gorm:"type:varchar(32)" json:"house_number"`
	Town        string `gorm:"type:varchar(255)" json:"town"`
}

func (School) TableName() string {
	return "school"
}

// GetUserSchool returns the school the given user belongs to.
func GetUserSchool(db *gorm.DB, userID uint) (*School, error) {
	var school School
	err := db.Table("school").
		Joins("JOIN user ON user.school_id = school.id").
		Where("user.id = ?", userID).
		First(&school).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("school not found")
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &school, nil
}

func UpdateSchool(db *gorm.DB, school *School) error {
	result := db.Model(&School{}).Where("id = ?", school.ID).Updates(map[string]interface{}{
		"name":         school.Name,
		"zip_code":     school.ZipCode,
		"street_name":  school.StreetName,
		"house_number": school.HouseNumber,
		"town":         school.Town,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update school: %w", result.Error)
	}
	return nil
}
