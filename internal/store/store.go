package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"housekeeping-backend/internal/model"
)

var (
	// ErrNotEligible signals a precondition failure on a state transition.
	// It is reported to the acting user as a denial, never retried.
	ErrNotEligible = errors.New("not eligible for requested transition")
	// ErrNotFound signals an unknown record where one is required.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a uniqueness conflict on creation.
	ErrAlreadyExists = errors.New("record already exists")
)

// Store defines the interface for all database operations.
type Store interface {
	// Room registry and assignment engine.
	ListRooms(ctx context.Context) ([]model.Room, error)
	PendingCheckRooms(ctx context.Context) ([]model.Room, error)
	RoomsAssignedTo(ctx context.Context, staffName string) ([]model.Room, error)
	CountRoomsByStatus(ctx context.Context) (map[model.RoomStatus]int64, error)
	CreateRoom(ctx context.Context, number, category, unit string) (model.Room, error)
	AssignRooms(ctx context.Context, staffName string, limit int, now time.Time) ([]string, error)
	CompleteRoom(ctx context.Context, number, staffName string, now time.Time) (model.Room, error)
	ApproveRoom(ctx context.Context, number string, now time.Time) (model.Room, error)

	// Staff directory.
	FindStaffByChatID(ctx context.Context, chatID int64) (model.Staff, error)
	FindStaffByName(ctx context.Context, name string) (model.Staff, error)
	Supervisors(ctx context.Context) ([]model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
	RegisterMaid(ctx context.Context, name string, chatID int64, now time.Time) (model.Staff, error)
	RegisterSupervisor(ctx context.Context, chatID int64, now time.Time) (model.Staff, error)

	// Linen ledger and inventory.
	RecordLinen(ctx context.Context, staffName string, counts [4]int, now time.Time) (model.LinenEntry, error)
	ListLinenEntries(ctx context.Context) ([]model.LinenEntry, error)
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// FindStaffByChatID looks up the staff record for a chat identity. Chat
// identity is unique, so there is at most one match.
func (s *gormStore) FindStaffByChatID(ctx context.Context, chatID int64) (model.Staff, error) {
	var staff model.Staff
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Staff{}, ErrNotFound
	}
	return staff, err
}

func (s *gormStore) FindStaffByName(ctx context.Context, name string) (model.Staff, error) {
	var staff model.Staff
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Staff{}, ErrNotFound
	}
	return staff, err
}

func (s *gormStore) Supervisors(ctx context.Context) ([]model.Staff, error) {
	var supervisors []model.Staff
	err := s.db.WithContext(ctx).
		Where("role = ?", model.RoleSupervisor).
		Order("id").
		Find(&supervisors).Error
	return supervisors, err
}

func (s *gormStore) ListStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := s.db.WithContext(ctx).Order("id").Find(&staff).Error
	return staff, err
}

func (s *gormStore) RegisterMaid(ctx context.Context, name string, chatID int64, now time.Time) (model.Staff, error) {
	staff := model.Staff{
		Name:         name,
		ChatID:       chatID,
		Role:         model.RoleMaid,
		RegisteredAt: now,
	}
	if err := s.createStaff(ctx, &staff); err != nil {
		return model.Staff{}, err
	}
	return staff, nil
}

// RegisterSupervisor appends a supervisor record with a synthesized display
// name derived from the chat identity.
func (s *gormStore) RegisterSupervisor(ctx context.Context, chatID int64, now time.Time) (model.Staff, error) {
	staff := model.Staff{
		Name:         fmt.Sprintf("Supervisor %d", chatID),
		ChatID:       chatID,
		Role:         model.RoleSupervisor,
		RegisteredAt: now,
	}
	if err := s.createStaff(ctx, &staff); err != nil {
		return model.Staff{}, err
	}
	return staff, nil
}

func (s *gormStore) createStaff(ctx context.Context, staff *model.Staff) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Staff{}).Where("chat_id = ?", staff.ChatID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(staff).Error
	})
}

// RecordLinen appends one linen submission. The total is derived here; the
// counts are passed through unmodified.
func (s *gormStore) RecordLinen(ctx context.Context, staffName string, counts [4]int, now time.Time) (model.LinenEntry, error) {
	entry := model.LinenEntry{
		StaffName:   staffName,
		RecordedAt:  now,
		Sheets:      counts[0],
		DuvetCovers: counts[1],
		Pillowcases: counts[2],
		Towels:      counts[3],
		Total:       counts[0] + counts[1] + counts[2] + counts[3],
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return model.LinenEntry{}, err
	}
	return entry, nil
}

func (s *gormStore) ListLinenEntries(ctx context.Context) ([]model.LinenEntry, error) {
	var entries []model.LinenEntry
	err := s.db.WithContext(ctx).Order("recorded_at DESC").Find(&entries).Error
	return entries, err
}

func (s *gormStore) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := s.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, err
}
