package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"housekeeping-backend/internal/store"
)

// GetRooms handles GET /api/rooms: a full snapshot of the room registry in
// row order.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetPendingRooms handles GET /api/rooms/pending: rooms awaiting a
// supervisor check.
func (h *Handler) GetPendingRooms(c *gin.Context) {
	rooms, err := h.store.PendingCheckRooms(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Number   string `json:"number" binding:"required"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

// CreateRoom handles POST /api/rooms. New rooms always start dirty and
// unassigned.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), req.Number, req.Category, req.Unit)
	if errors.Is(err, store.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "room number already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}
