package notification

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"housekeeping-backend/internal/store"
)

// ChatSender delivers a plain text message to a chat identity.
type ChatSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Router translates room state transitions into targeted outbound messages.
// Delivery is best-effort: per-recipient failures are logged and counted but
// never surfaced to the actor that triggered the transition, and never
// retried.
type Router struct {
	store      store.Store
	chat       ChatSender
	pool       *WorkerPool
	suppressed atomic.Int64
}

// NewRouter creates a notification router. chat and pool may each be nil
// when the corresponding channel is disabled.
func NewRouter(s store.Store, chat ChatSender, pool *WorkerPool) *Router {
	return &Router{store: s, chat: chat, pool: pool}
}

// RoomCleaned fans out to every supervisor and dispatches a web push job.
func (r *Router) RoomCleaned(ctx context.Context, roomNumber, staffName string) {
	if r.chat != nil {
		supervisors, err := r.store.Supervisors(ctx)
		if err != nil {
			log.Printf("Error fetching supervisors for room %s notification: %v", roomNumber, err)
		} else {
			text := fmt.Sprintf("Maid %s cleaned room №%s. Check required.", staffName, roomNumber)
			for _, sup := range supervisors {
				if err := r.chat.SendText(ctx, sup.ChatID, text); err != nil {
					r.suppressed.Add(1)
					log.Printf("Suppressed notification to chat %d: %v", sup.ChatID, err)
				}
			}
		}
	}

	if r.pool != nil {
		r.pool.Dispatch(PushEvent{RoomNumber: roomNumber, StaffName: staffName})
	}
}

// RoomApproved notifies the maid whose room was approved.
func (r *Router) RoomApproved(ctx context.Context, roomNumber string, chatID int64) {
	if r.chat == nil {
		return
	}
	text := fmt.Sprintf("Room №%s was checked and approved by a supervisor.", roomNumber)
	if err := r.chat.SendText(ctx, chatID, text); err != nil {
		r.suppressed.Add(1)
		log.Printf("Suppressed notification to chat %d: %v", chatID, err)
	}
}

// Suppressed reports how many deliveries have been swallowed since start.
func (r *Router) Suppressed() int64 {
	return r.suppressed.Load()
}
