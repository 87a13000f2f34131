// Package storage provides the usage-log interface and its SQLite implementation.
package storage

import (
	"time"

	"github.com/mandalnilabja/sommelier/internal/storage/models"
	"github.com/mandalnilabja/sommelier/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	RequestLog = models.RequestLog
	LogFilter  = models.LogFilter
	DailyUsage = models.DailyUsage
)

// Re-export errors from sqlite package
var (
	ErrInvalidInput  = sqlite.ErrInvalidInput
	ErrStorageClosed = sqlite.ErrStorageClosed
)

// Storage defines the interface for the usage audit log
type Storage interface {
	// Request logging operations
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)
	DeleteRequestLogs(olderThan time.Time) (int64, error)

	// Usage statistics operations
	UpdateDailyUsage(usage *models.DailyUsage) error
	GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error)

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}
