package model

import "time"

// StaffRole distinguishes maids from supervisors. Unknown chat identities
// have no role at all and must register before any role-gated action.
type StaffRole string

const (
	RoleMaid       StaffRole = "maid"
	RoleSupervisor StaffRole = "supervisor"
)

// Staff represents a registered housekeeping worker keyed by chat identity.
type Staff struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:128;not null" json:"name"`
	ChatID            int64     `gorm:"uniqueIndex;not null" json:"chatId"`
	Role              StaffRole `gorm:"size:16;not null" json:"role"`
	RegisteredAt      time.Time `gorm:"not null" json:"registeredAt"`
	AssignedRoomCount int       `gorm:"not null;default:0" json:"assignedRoomCount"`
}

func (Staff) TableName() string { return "staff" }
