package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/Be1newinner/ship-chatbot/internal/httpapi/middleware"
	"github.com/gin-gonic/gin"
)

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// pageRequest reads ?page and ?page_size with defaults. Non-numeric
// values are rejected here; range checks happen in the repo before any
// query runs.
func pageRequest(c *gin.Context) (common.PageRequest, error) {
	pr := common.PageRequest{Page: 1, PageSize: common.DefaultPageSize}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pr, common.ErrInvalidPage
		}
		pr.Page = n
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pr, common.ErrInvalidPage
		}
		pr.PageSize = n
	}
	return pr, nil
}

type chatReq struct {
	Input string `json:"input" binding:"required"`
}

// Chat runs one conversational turn for the authenticated user.
func (h *Handler) Chat(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "input required")
		return
	}

	reply, err := h.ChatSvc.HandleTurn(c.Request.Context(), uid, req.Input)
	if err != nil {
		if errors.Is(err, chat.ErrGenerationFailed) {
			common.Fail(c, http.StatusBadGateway, 50201, "generation failed")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{"response": reply})
}

// History pages the caller's own chat history.
func (h *Handler) History(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	pr, err := pageRequest(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
		return
	}

	turns, total, err := h.ChatSvc.History(c.Request.Context(), uid, pr)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPage) {
			common.Fail(c, http.StatusBadRequest, 40001, "invalid page request")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list history")
		return
	}

	common.OK(c, gin.H{
		"page":        pr.Page,
		"page_size":   pr.PageSize,
		"total_chats": total,
		"data":        turns,
	})
}
