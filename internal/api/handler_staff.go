package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStaff handles GET /api/staff.
func (h *Handler) GetStaff(c *gin.Context) {
	staff, err := h.store.ListStaff(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// GetLinen handles GET /api/linen: the append-only linen ledger, newest
// first.
func (h *Handler) GetLinen(c *gin.Context) {
	entries, err := h.store.ListLinenEntries(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve linen entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetInventory handles GET /api/inventory.
func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.store.ListInventory(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// statsResponse summarizes registry state and notification suppression for
// operational diagnosis.
type statsResponse struct {
	Rooms                   map[string]int64 `json:"rooms"`
	SuppressedNotifications int64            `json:"suppressedNotifications"`
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.store.CountRoomsByStatus(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate rooms"})
		return
	}

	resp := statsResponse{Rooms: make(map[string]int64, len(counts))}
	for status, count := range counts {
		resp.Rooms[string(status)] = count
	}
	if h.notifier != nil {
		resp.SuppressedNotifications = h.notifier.Suppressed()
	}
	c.JSON(http.StatusOK, resp)
}
