package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"housekeeping-backend/internal/model"
	"housekeeping-backend/internal/store"
)

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

type sentMessage struct {
	chatID int64
	text   string
}

// flakyChatSender fails deliveries to the chats listed in failing.
type flakyChatSender struct {
	sent    []sentMessage
	failing map[int64]bool
}

func (s *flakyChatSender) SendText(_ context.Context, chatID int64, text string) error {
	if s.failing[chatID] {
		return errors.New("chat unreachable")
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func TestRoomCleanedFanOut(t *testing.T) {
	db := newTestDB(t)
	s := store.NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.RegisterSupervisor(ctx, 100, now)
	require.NoError(t, err)
	_, err = s.RegisterSupervisor(ctx, 200, now)
	require.NoError(t, err)
	_, err = s.RegisterMaid(ctx, "Anna", 1, now)
	require.NoError(t, err)

	chat := &flakyChatSender{}
	r := NewRouter(s, chat, nil)

	r.RoomCleaned(ctx, "101", "Anna")

	// Every supervisor hears about it; the maid does not.
	require.Len(t, chat.sent, 2)
	for _, msg := range chat.sent {
		assert.Contains(t, []int64{100, 200}, msg.chatID)
		assert.Contains(t, msg.text, "Anna")
		assert.Contains(t, msg.text, "№101")
	}
	assert.Zero(t, r.Suppressed())
}

func TestDeliveryFailuresAreSuppressed(t *testing.T) {
	db := newTestDB(t)
	s := store.NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.RegisterSupervisor(ctx, 100, now)
	require.NoError(t, err)
	_, err = s.RegisterSupervisor(ctx, 200, now)
	require.NoError(t, err)

	chat := &flakyChatSender{failing: map[int64]bool{200: true}}
	r := NewRouter(s, chat, nil)

	// A failing recipient never blocks the remaining fan-out.
	r.RoomCleaned(ctx, "101", "Anna")
	require.Len(t, chat.sent, 1)
	assert.Equal(t, int64(100), chat.sent[0].chatID)
	assert.Equal(t, int64(1), r.Suppressed())

	r.RoomApproved(ctx, "101", 200)
	assert.Equal(t, int64(2), r.Suppressed())

	r.RoomApproved(ctx, "101", 100)
	require.Len(t, chat.sent, 2)
	assert.Contains(t, chat.sent[1].text, "approved")
	assert.Equal(t, int64(2), r.Suppressed())
}

func TestRouterWithoutChannels(t *testing.T) {
	db := newTestDB(t)
	s := store.NewGormStore(db)
	ctx := context.Background()

	_, err := s.RegisterSupervisor(ctx, 100, time.Now().UTC())
	require.NoError(t, err)

	// Both channels disabled: transitions are silently absorbed.
	r := NewRouter(s, nil, nil)
	r.RoomCleaned(ctx, "101", "Anna")
	r.RoomApproved(ctx, "101", 100)
	assert.Zero(t, r.Suppressed())
}
