package gorm

import (
	"strings"

	gormlogger "gorm.io/gorm/logger"
)

// LogLevel maps a config level name to the GORM log level. Unknown names silence GORM.
func LogLevel(name string) gormlogger.LogLevel {
	switch strings.ToLower(name) {
	case "info", "debug":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
