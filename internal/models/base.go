package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Today returns the current date truncated to midnight UTC. All date-only
// comparisons (due dates, overdue checks) are made against this value so an
// invoice due today is not yet overdue.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// taxFor computes the tax in minor units for an amount at the given percent
// rate, rounding half away from zero to the nearest cent.
func taxFor(amount int64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) * rate / 100))
}
