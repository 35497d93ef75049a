package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cannon-backend/internal/http/response"
	"github.com/yungbote/cannon-backend/internal/modules/chat"
)

type ChatUsecases interface {
	Send(ctx context.Context, userID uuid.UUID, in chat.SendInput) (chat.SendResult, error)
	History(ctx context.Context, userID uuid.UUID, limit int) (chat.HistoryResult, error)
}

type ChatHandler struct {
	chat ChatUsecases
}

func NewChatHandler(uc ChatUsecases) *ChatHandler {
	return &ChatHandler{chat: uc}
}

type sendMessageReq struct {
	Message string `json:"message" form:"message"`
}

// POST /api/chat
// Accepts JSON {"message"} or multipart with "message" and an optional "image".
func (h *ChatHandler) Send(c *gin.Context) {
	var in chat.SendInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in.Message = c.PostForm("message")
		data, mime, err := readFormFile(c, "image", maxImageBytes)
		if err != nil {
			response.RespondAPIError(c, err, "invalid_request")
			return
		}
		if len(data) > 0 {
			in.Image = &chat.Image{MimeType: mime, Data: data}
		}
	} else {
		var req sendMessageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		in.Message = req.Message
	}
	res, err := h.chat.Send(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		response.RespondAPIError(c, err, "chat_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/chat/history?limit=50
func (h *ChatHandler) History(c *gin.Context) {
	res, err := h.chat.History(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 50))
	if err != nil {
		response.RespondAPIError(c, err, "load_history_failed")
		return
	}
	response.RespondOK(c, res)
}
