package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the MySQL connection described by MYSQL_DSN, or assembled
// from the MYSQL_USER/PASS/HOST/PORT/DB parts when no full DSN is set.
// GORM_LOG=off silences query logging.
func NewDB() (*gorm.DB, error) {
	logMode := logger.Info
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logMode,
			Colorful:      true,
		},
	)

	return gorm.Open(mysql.Open(mysqlDSN()), &gorm.Config{
		Logger: gormLogger,
	})
}

func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		os.Getenv("MYSQL_USER"), os.Getenv("MYSQL_PASS"),
		os.Getenv("MYSQL_HOST"), port, os.Getenv("MYSQL_DB"))
}
