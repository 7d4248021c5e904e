package platform

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// SQLConfig 包含关系数据库连接的配置信息
type SQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func SQLConfigFromEnv() SQLConfig {
	return SQLConfig{
		Host:     os.Getenv("SQL_HOST"),
		Port:     os.Getenv("SQL_PORT"),
		User:     os.Getenv("SQL_USER"),
		Password: os.Getenv("SQL_PASSWORD"),
		DBName:   os.Getenv("SQL_DBNAME"),
	}
}

// NewDB opens the MySQL connection used for users, schools, classes,
// help requests and usage statistics. The handle is built once at startup
// and passed into the services that need it.
func NewDB(config SQLConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.User, config.Password, config.Host, config.Port, config.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
