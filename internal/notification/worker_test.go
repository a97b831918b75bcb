package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housekeeping-backend/internal/model"
)

// mockPushSender records payloads and answers with a fixed status per endpoint.
type mockPushSender struct {
	mu       sync.Mutex
	payloads [][]byte
	statuses map[string]int
	sent     chan struct{}
}

func (m *mockPushSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()

	status := http.StatusCreated
	if s, ok := m.statuses[sub.Endpoint]; ok {
		status = s
	}
	if m.sent != nil {
		m.sent <- struct{}{}
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

func TestSendPushesPayload(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/a",
		P256DH:   "key-a",
		Auth:     "auth-a",
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/b",
		P256DH:   "key-b",
		Auth:     "auth-b",
	}).Error)

	mock := &mockPushSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = mock

	wp.sendPushes(context.Background(), PushEvent{RoomNumber: "101", StaffName: "Anna"})

	require.Len(t, mock.payloads, 2)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(mock.payloads[0], &payload))
	assert.Equal(t, "Room cleaned", payload["title"])
	assert.Contains(t, payload["body"], "Anna")
	assert.Contains(t, payload["body"], "№101")
}

func TestExpiredSubscriptionIsDeleted(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/gone",
		P256DH:   "key",
		Auth:     "auth",
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/alive",
		P256DH:   "key",
		Auth:     "auth",
	}).Error)

	mock := &mockPushSender{statuses: map[string]int{
		"https://push.example.com/gone": http.StatusGone,
	}}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = mock

	wp.sendPushes(context.Background(), PushEvent{RoomNumber: "101", StaffName: "Anna"})

	var remaining []model.PushSubscription
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "https://push.example.com/alive", remaining[0].Endpoint)
}

func TestWorkerPoolDrainsDispatchedEvents(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/a",
		P256DH:   "key",
		Auth:     "auth",
	}).Error)

	mock := &mockPushSender{sent: make(chan struct{}, 1)}
	wp := NewWorkerPool(2, db, &webpush.Options{})
	wp.sender = mock

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(PushEvent{RoomNumber: "101", StaffName: "Anna"})

	select {
	case <-mock.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("push was not delivered by the worker pool")
	}
}
