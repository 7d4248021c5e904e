package model

import (
	"fmt"

	"gorm.io/gorm"
)

type Class struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassStudent links a student to a class.
type ClassStudent struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   uint `gorm:"index;not null" json:"class_id"`
	StudentID uint `gorm:"index;not null" json:"student_id"`
}

func (ClassStudent) TableName() string {
	return "class_students"
}

func GetClasses(db *gorm.DB) ([]Class, error) {
	var classes []Class
	if err := db.Order("name").Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return classes, nil
}

func CreateClass(db *gorm.DB, class *Class) error {
	if err := db.Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func RenameClass(db *gorm.DB, id uint, name string) (*Class, error) {
	result := db.Model(&Class{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to rename class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("class not found")
	}
	var class Class
	if err := db.First(&class, id).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &class, nil
}

// DeleteClass removes a class and reports how many rows were deleted.
func DeleteClass(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&Class{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete class: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func GetClassStudentIDs(db *gorm.DB, classID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&ClassStudent{}).Where("class_id = ?", classID).Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return ids, nil
}

// ReplaceClassStudents swaps the full membership of a class in one transaction.
func ReplaceClassStudents(db *gorm.DB, classID uint, studentIDs []uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", classID).Delete(&ClassStudent{}).Error; err != nil {
			return fmt.Errorf("failed to clear class students: %w", err)
		}
		for _, studentID := range studentIDs {
			member := ClassStudent{ClassID: classID, StudentID: studentID}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("failed to add class student: %w", err)
			}
		}
		return nil
	})
}

// AssignStudentsToClass sets class_id on the given users.
func AssignStudentsToClass(db *gorm.DB, classID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	err := db.Model(&User{}).Where("id IN ?", studentIDs).Update("class_id", classID).Error
	if err != nil {
		return fmt.Errorf("failed to assign students: %w", err)
	}
	return nil
}
