package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cannon-backend/internal/http/response"
	"github.com/yungbote/cannon-backend/internal/modules/payments"
)

type PaymentUsecases interface {
	TestActivate(ctx context.Context, userID uuid.UUID) (payments.ActivateResult, error)
}

type PaymentHandler struct {
	payments PaymentUsecases
}

func NewPaymentHandler(uc PaymentUsecases) *PaymentHandler {
	return &PaymentHandler{payments: uc}
}

// POST /api/payments/test-activate
func (h *PaymentHandler) TestActivate(c *gin.Context) {
	res, err := h.payments.TestActivate(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.RespondAPIError(c, err, "activate_failed")
		return
	}
	response.RespondOK(c, res)
}
