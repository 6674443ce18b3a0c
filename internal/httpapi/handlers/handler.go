package handlers

import (
	"context"
	"log"

	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/Be1newinner/ship-chatbot/internal/config"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ActivityPublisher mirrors chat.ActivityPublisher for the auth
// handlers, which publish register/login events.
type ActivityPublisher interface {
	PublishEvent(ctx context.Context, userID uint64, action, detail string) error
}

type Handler struct {
	DB       *gorm.DB
	Cfg      config.Config
	ChatSvc  *chat.Service
	Activity ActivityPublisher
}

func NewHandler(db *gorm.DB, cfg config.Config, svc *chat.Service, activity ActivityPublisher) *Handler {
	return &Handler{DB: db, Cfg: cfg, ChatSvc: svc, Activity: activity}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func (h *Handler) publishActivity(c *gin.Context, userID uint64, action, detail string) {
	if h.Activity == nil {
		return
	}
	// Audit events are best effort; the user request already succeeded.
	if err := h.Activity.PublishEvent(c.Request.Context(), userID, action, detail); err != nil {
		log.Printf("activity publish failed user=%d action=%s err=%v", userID, action, err)
	}
}
