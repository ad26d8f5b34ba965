package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/madebyaram2024/PPC-CRM-sub000/realtime"
	"github.com/madebyaram2024/PPC-CRM-sub000/services"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// PresenceHandler serves presence snapshots for the messenger UI. Liveness
// comes from the in-memory connection registry; last-seen timestamps for
// offline users come from the redis-backed store.
type PresenceHandler struct {
	registry *realtime.Registry
	lastSeen *services.LastSeenStore
	logger   *utils.Logger
}

func NewPresenceHandler(registry *realtime.Registry, lastSeen *services.LastSeenStore, logger *utils.Logger) *PresenceHandler {
	return &PresenceHandler{
		registry: registry,
		lastSeen: lastSeen,
		logger:   logger,
	}
}

type onlineUserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type presenceStatusResponse struct {
	UserID   string     `json:"user_id"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// GetOnlineUsers handles GET /api/v1/presence/online
func (h *PresenceHandler) GetOnlineUsers(c *gin.Context) {
	users := lo.Map(h.registry.OnlineUsers(), func(identity realtime.Identity, _ int) onlineUserResponse {
		return onlineUserResponse{
			UserID: identity.UserID,
			Name:   identity.Name,
			Email:  identity.Email,
			Role:   identity.Role,
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// GetStatus handles GET /api/v1/presence/status?user_id=...
func (h *PresenceHandler) GetStatus(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id parameter is required"})
		return
	}

	response := presenceStatusResponse{
		UserID:   userID,
		IsOnline: h.registry.IsOnline(userID),
	}

	if !response.IsOnline {
		seen, found, err := h.lastSeen.Get(c.Request.Context(), userID)
		if err != nil {
			h.logger.Warn("Failed to read last-seen", "userId", userID, "error", err)
		} else if found {
			response.LastSeen = &seen
		}
	}

	c.JSON(http.StatusOK, response)
}
