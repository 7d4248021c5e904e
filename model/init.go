package model

import "gorm.io/gorm"

// InstallDB migrates the relational schema.
func InstallDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&School{},
		&Class{},
		&ClassStudent{},
		&Statistic{},
		&UserSession{},
		&HelpRequest{},
		&HelpRequestMessage{},
	)
}
