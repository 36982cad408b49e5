package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

type notificationService interface {
	ListForRecipient(ctx context.Context, recipient *domain.Person, onlyUnread bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, recipient *domain.Person) error
}

type NotificationHandler struct {
	svc notificationService
}

func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Register(r *gin.RouterGroup) {
	r.GET("/notifications", h.List)
	r.POST("/notifications/:id/read", h.MarkRead)
}

func (h *NotificationHandler) List(c *gin.Context) {
	onlyUnread := c.Query("unread") == "true"

	notifications, err := h.svc.ListForRecipient(c.Request.Context(), actorFrom(c), onlyUnread)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
