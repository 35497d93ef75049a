package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cannon-backend/internal/http/response"
	"github.com/yungbote/cannon-backend/internal/modules/leaderboard"
)

type LeaderboardUsecases interface {
	List(ctx context.Context, viewerID uuid.UUID, limit int) (leaderboard.ListResult, error)
	Me(ctx context.Context, viewerID uuid.UUID) (leaderboard.MeResult, error)
}

type LeaderboardHandler struct {
	board LeaderboardUsecases
}

func NewLeaderboardHandler(uc LeaderboardUsecases) *LeaderboardHandler {
	return &LeaderboardHandler{board: uc}
}

// GET /api/leaderboard?limit=100
func (h *LeaderboardHandler) List(c *gin.Context) {
	res, err := h.board.List(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 100))
	if err != nil {
		response.RespondAPIError(c, err, "leaderboard_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/leaderboard/me
func (h *LeaderboardHandler) Me(c *gin.Context) {
	res, err := h.board.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.RespondAPIError(c, err, "leaderboard_failed")
		return
	}
	response.RespondOK(c, res)
}
