package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
)

type notificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Level     int        `json:"level"`
	SourceID  *string    `json:"sourceId,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Level:     n.Level,
		SourceID:  n.SourceID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	notifications, err := h.notifications.ListByRecipient(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]notificationResponse, 0, len(notifications))
	unread := 0
	for _, n := range notifications {
		if n.ReadAt == nil {
			unread++
		}
		items = append(items, toNotificationResponse(n))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "unread": unread})
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
