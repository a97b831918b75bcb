package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"housekeeping-backend/internal/model"
)

// All room transitions are conditional UPDATEs that restate the precondition
// in the WHERE clause and run inside a transaction. Zero rows affected means
// the precondition no longer holds (typically because a concurrent actor got
// there first) and the caller receives ErrNotEligible.

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).Order("id").Find(&rooms).Error
	return rooms, err
}

func (s *gormStore) PendingCheckRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Where("status = ?", model.RoomStatusPendingCheck).
		Order("id").
		Find(&rooms).Error
	return rooms, err
}

func (s *gormStore) RoomsAssignedTo(ctx context.Context, staffName string) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Where("assigned_staff = ? AND status = ?", staffName, model.RoomStatusInProgress).
		Order("id").
		Find(&rooms).Error
	return rooms, err
}

func (s *gormStore) CountRoomsByStatus(ctx context.Context) (map[model.RoomStatus]int64, error) {
	type statusCount struct {
		Status model.RoomStatus
		Count  int64
	}
	var rows []statusCount
	err := s.db.WithContext(ctx).
		Model(&model.Room{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.RoomStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreateRoom provisions a new room. Rooms always start dirty and unassigned;
// the room number is immutable once created.
func (s *gormStore) CreateRoom(ctx context.Context, number, category, unit string) (model.Room, error) {
	room := model.Room{
		Number:   number,
		Category: category,
		Unit:     unit,
		Status:   model.RoomStatusDirty,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Room{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(&room).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// AssignRooms hands out up to limit dirty, unassigned rooms to a maid in row
// order. Rooms lost to a concurrent assignment between the snapshot read and
// the conditional update are skipped rather than double-booked. An empty
// result is not an error.
func (s *gormStore) AssignRooms(ctx context.Context, staffName string, limit int, now time.Time) ([]string, error) {
	var numbers []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []model.Room
		if err := tx.
			Where("status = ? AND assigned_staff = ''", model.RoomStatusDirty).
			Order("id").
			Limit(limit).
			Find(&candidates).Error; err != nil {
			return err
		}

		for _, room := range candidates {
			res := tx.Model(&model.Room{}).
				Where("id = ? AND status = ? AND assigned_staff = ''", room.ID, model.RoomStatusDirty).
				Updates(map[string]any{
					"status":         model.RoomStatusInProgress,
					"assigned_staff": staffName,
					"assigned_at":    now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			numbers = append(numbers, room.Number)
		}

		if len(numbers) > 0 {
			if err := tx.Model(&model.Staff{}).
				Where("name = ?", staffName).
				Update("assigned_room_count", gorm.Expr("assigned_room_count + ?", len(numbers))).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// CompleteRoom records that the assigned maid finished cleaning. The
// assignee match in the WHERE clause is the authorization check: any other
// staff name fails closed with ErrNotEligible.
func (s *gormStore) CompleteRoom(ctx context.Context, number, staffName string, now time.Time) (model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Room{}).
			Where("number = ? AND assigned_staff = ? AND status = ?", number, staffName, model.RoomStatusInProgress).
			Updates(map[string]any{
				"status":       model.RoomStatusPendingCheck,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotEligible
		}
		return tx.Where("number = ?", number).First(&room).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// ApproveRoom moves a room from pending check to clean. A second approval of
// the same room fails with ErrNotEligible.
func (s *gormStore) ApproveRoom(ctx context.Context, number string, now time.Time) (model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Room{}).
			Where("number = ? AND status = ?", number, model.RoomStatusPendingCheck).
			Updates(map[string]any{
				"status":      model.RoomStatusClean,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotEligible
		}
		return tx.Where("number = ?", number).First(&room).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}
