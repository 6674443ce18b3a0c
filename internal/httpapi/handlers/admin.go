package handlers

import (
	"errors"
	"net/http"

	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/gin-gonic/gin"
)

// SessionChats pages any session's turns. Admin only.
func (h *Handler) SessionChats(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "session_id required")
		return
	}

	pr, err := pageRequest(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
		return
	}

	turns, total, err := h.ChatSvc.SessionTurns(c.Request.Context(), sessionID, pr)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPage) {
			common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list session chats")
		return
	}

	common.OK(c, gin.H{
		"page":        pr.Page,
		"page_size":   pr.PageSize,
		"total_chats": total,
		"data":        turns,
	})
}

// AllChats pages every session. Admin only.
func (h *Handler) AllChats(c *gin.Context) {
	pr, err := pageRequest(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
		return
	}

	sessions, total, err := h.ChatSvc.Sessions(c.Request.Context(), pr)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPage) {
			common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list sessions")
		return
	}

	common.OK(c, gin.H{
		"page":           pr.Page,
		"page_size":      pr.PageSize,
		"total_sessions": total,
		"data":           sessions,
	})
}

// AllUsers pages every user without sensitive fields. Admin only.
func (h *Handler) AllUsers(c *gin.Context) {
	pr, err := pageRequest(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
		return
	}

	users, total, err := h.ChatSvc.Users(c.Request.Context(), pr)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPage) {
			common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list users")
		return
	}

	common.OK(c, gin.H{
		"page":        pr.Page,
		"page_size":   pr.PageSize,
		"total_users": total,
		"data":        users,
	})
}

func (h *Handler) CountUsers(c *gin.Context) {
	n, err := h.ChatSvc.CountUsers(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to count users")
		return
	}
	common.OK(c, gin.H{"total_users": n})
}

func (h *Handler) CountSessions(c *gin.Context) {
	n, err := h.ChatSvc.CountSessions(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to count sessions")
		return
	}
	common.OK(c, gin.H{"total_sessions": n})
}
