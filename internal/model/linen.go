package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinenEntry is one append-only linen return submission by a maid.
type LinenEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffName   string    `gorm:"size:128;not null;index" json:"staffName"`
	RecordedAt  time.Time `gorm:"not null;index" json:"recordedAt"`
	Sheets      int       `gorm:"not null" json:"sheets"`
	DuvetCovers int       `gorm:"not null" json:"duvetCovers"`
	Pillowcases int       `gorm:"not null" json:"pillowcases"`
	Towels      int       `gorm:"not null" json:"towels"`
	Total       int       `gorm:"not null" json:"total"`
}

func (e *LinenEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
