package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"housekeeping-backend/internal/model"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Room{},
		&model.Staff{},
		&model.LinenEntry{},
		&model.InventoryItem{},
		&model.PushSubscription{},
	))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func seedDirtyRooms(t *testing.T, db *gorm.DB, numbers ...string) {
	for _, n := range numbers {
		require.NoError(t, db.Create(&model.Room{Number: n, Status: model.RoomStatusDirty}).Error)
	}
}

func TestAssignRoomsQuota(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.Create(&model.Staff{Name: "Anna", ChatID: 1, Role: model.RoleMaid, RegisteredAt: now}).Error)

	var expected []string
	for i := 0; i < 20; i++ {
		expected = append(expected, fmt.Sprintf("%d", 101+i))
	}
	seedDirtyRooms(t, db, expected...)

	assigned, err := s.AssignRooms(ctx, "Anna", 18, now)
	require.NoError(t, err)
	assert.Equal(t, expected[:18], assigned, "assignment follows row order")

	var inProgress []model.Room
	require.NoError(t, db.Where("status = ?", model.RoomStatusInProgress).Find(&inProgress).Error)
	assert.Len(t, inProgress, 18)
	for _, room := range inProgress {
		assert.Equal(t, "Anna", room.AssignedStaff)
		assert.NotNil(t, room.AssignedAt)
		assert.Nil(t, room.CompletedAt)
		assert.Nil(t, room.ApprovedAt)
	}

	var dirtyCount int64
	db.Model(&model.Room{}).Where("status = ?", model.RoomStatusDirty).Count(&dirtyCount)
	assert.Equal(t, int64(2), dirtyCount, "two rooms remain dirty")

	var anna model.Staff
	require.NoError(t, db.Where("name = ?", "Anna").First(&anna).Error)
	assert.Equal(t, 18, anna.AssignedRoomCount)
}

func TestAssignRoomsFewerAvailable(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()

	seedDirtyRooms(t, db, "101", "102", "103")

	assigned, err := s.AssignRooms(ctx, "Anna", 18, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, assigned)
}

func TestAssignRoomsEligibility(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	// Only dirty, unassigned rooms are eligible.
	require.NoError(t, db.Create(&model.Room{Number: "201", Status: model.RoomStatusClean}).Error)
	require.NoError(t, db.Create(&model.Room{Number: "202", Status: model.RoomStatusPendingCheck, AssignedStaff: "Bob"}).Error)
	require.NoError(t, db.Create(&model.Room{Number: "203", Status: model.RoomStatusInProgress, AssignedStaff: "Bob"}).Error)
	require.NoError(t, db.Create(&model.Room{Number: "204", Status: model.RoomStatusDirty, AssignedStaff: "Bob"}).Error)
	require.NoError(t, db.Create(&model.Room{Number: "205", Status: model.RoomStatusDirty}).Error)

	assigned, err := s.AssignRooms(ctx, "Anna", 18, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"205"}, assigned)
}

func TestAssignRoomsNoneAvailable(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)

	assigned, err := s.AssignRooms(context.Background(), "Anna", 18, time.Now().UTC())
	require.NoError(t, err, "an empty assignment is not an error")
	assert.Empty(t, assigned)
}

func TestCompleteRoomAuthorization(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	assignedAt := now.Add(-time.Hour)
	require.NoError(t, db.Create(&model.Room{
		Number:        "101",
		Status:        model.RoomStatusInProgress,
		AssignedStaff: "Anna",
		AssignedAt:    &assignedAt,
	}).Error)

	// Bob cannot complete Anna's room.
	_, err := s.CompleteRoom(ctx, "101", "Bob", now)
	assert.ErrorIs(t, err, ErrNotEligible)

	var unchanged model.Room
	require.NoError(t, db.Where("number = ?", "101").First(&unchanged).Error)
	assert.Equal(t, model.RoomStatusInProgress, unchanged.Status)
	assert.Nil(t, unchanged.CompletedAt)

	room, err := s.CompleteRoom(ctx, "101", "Anna", now)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusPendingCheck, room.Status)
	require.NotNil(t, room.CompletedAt)
	assert.WithinDuration(t, now, *room.CompletedAt, time.Second)

	// A second completion finds the room no longer in progress.
	_, err = s.CompleteRoom(ctx, "101", "Anna", now)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestApproveRoom(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	completedAt := now.Add(-time.Minute)
	require.NoError(t, db.Create(&model.Room{
		Number:        "101",
		Status:        model.RoomStatusPendingCheck,
		AssignedStaff: "Anna",
		CompletedAt:   &completedAt,
	}).Error)
	require.NoError(t, db.Create(&model.Room{Number: "102", Status: model.RoomStatusDirty}).Error)

	room, err := s.ApproveRoom(ctx, "101", now)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusClean, room.Status)
	require.NotNil(t, room.ApprovedAt)
	assert.WithinDuration(t, now, *room.ApprovedAt, time.Second)

	// Approval is guarded against repeats: the room is already clean.
	_, err = s.ApproveRoom(ctx, "101", now)
	assert.ErrorIs(t, err, ErrNotEligible)

	// Rooms never reach clean straight from dirty.
	_, err = s.ApproveRoom(ctx, "102", now)
	assert.ErrorIs(t, err, ErrNotEligible)

	// Unknown room numbers fail closed the same way.
	_, err = s.ApproveRoom(ctx, "999", now)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestCreateRoom(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()

	room, err := s.CreateRoom(ctx, "101", "standard", "A")
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusDirty, room.Status)
	assert.Empty(t, room.AssignedStaff)

	_, err = s.CreateRoom(ctx, "101", "standard", "A")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCountRoomsByStatus(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)

	seedDirtyRooms(t, db, "101", "102")
	require.NoError(t, db.Create(&model.Room{Number: "103", Status: model.RoomStatusClean}).Error)

	counts, err := s.CountRoomsByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.RoomStatusDirty])
	assert.Equal(t, int64(1), counts[model.RoomStatusClean])
	assert.Zero(t, counts[model.RoomStatusPendingCheck])
}
