package model

import "time"

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	// RoomStatusDirty means the room needs cleaning and may be assigned.
	RoomStatusDirty RoomStatus = "dirty"
	// RoomStatusInProgress means the room is assigned to a maid who has not
	// reported it cleaned yet.
	RoomStatusInProgress RoomStatus = "in_progress"
	// RoomStatusPendingCheck means the maid reported the room cleaned and a
	// supervisor check is outstanding.
	RoomStatusPendingCheck RoomStatus = "pending_check"
	// RoomStatusClean means a supervisor approved the cleaning.
	RoomStatusClean RoomStatus = "clean"
)

// Room represents a single room in the rooms registry.
type Room struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Number        string     `gorm:"uniqueIndex;size:16;not null" json:"number"`
	Category      string     `gorm:"size:64" json:"category"`
	Unit          string     `gorm:"size:64" json:"unit"`
	Status        RoomStatus `gorm:"size:16;not null;index" json:"status"`
	AssignedStaff string     `gorm:"size:128;not null;default:''" json:"assignedStaff"`
	AssignedAt    *time.Time `json:"assignedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	ApprovedAt    *time.Time `json:"approvedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
