package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"housekeeping-backend/internal/notification"
	"housekeeping-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	webpush  *webpush.Options
	notifier *notification.Router
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, notifier *notification.Router) *Handler {
	return &Handler{
		store:    s,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}
