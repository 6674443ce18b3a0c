package httpapi

import (
	"net/http"

	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/Be1newinner/ship-chatbot/internal/config"
	"github.com/Be1newinner/ship-chatbot/internal/httpapi/handlers"
	"github.com/Be1newinner/ship-chatbot/internal/httpapi/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, svc *chat.Service, activity handlers.ActivityPublisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, svc, activity)

	r.GET("/ping", h.Ping)

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.POST("/chat", h.Chat)
	authGroup.GET("/chat", h.History)

	adminGroup := authGroup.Group("/admin")
	adminGroup.Use(middleware.AdminRequired())
	adminGroup.GET("/chat/:session_id", h.SessionChats)
	adminGroup.GET("/all-chats", h.AllChats)
	adminGroup.GET("/all-users", h.AllUsers)
	adminGroup.GET("/count/users", h.CountUsers)
	adminGroup.GET("/count/sessions", h.CountSessions)

	return r
}
