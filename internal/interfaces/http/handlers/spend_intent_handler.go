package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/internal/interfaces/http/response"
	"loyalty-ledger.backend/internal/usecases"
)

type spendIntentService interface {
	CreateSpendIntent(ctx context.Context, userID, amountPts int64, ttl time.Duration) (*entities.SpendIntentResult, error)
	GetActiveIntent(ctx context.Context, userID int64) (*entities.SpendIntent, error)
	ConsumeSpendIntent(ctx context.Context, userID int64, token string) (*entities.ConsumeResult, error)
	CancelSpendIntent(ctx context.Context, userID int64, token string) (bool, error)
}

// SpendIntentHandler handles spend intent endpoints
type SpendIntentHandler struct {
	intents spendIntentService
	policy  *usecases.AccessPolicy
}

// NewSpendIntentHandler creates a new spend intent handler
func NewSpendIntentHandler(intents *usecases.SpendIntentUsecase, policy *usecases.AccessPolicy) *SpendIntentHandler {
	return &SpendIntentHandler{intents: intents, policy: policy}
}

// CreateSpendIntent opens a redemption authorization for the caller
// POST /api/v1/spend-intents
func (h *SpendIntentHandler) CreateSpendIntent(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.CreateSpendIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ttl := time.Duration(input.TTLMinutes) * time.Minute
	result, err := h.intents.CreateSpendIntent(c.Request.Context(), claims.UserID, input.AmountPts, ttl)
	if err != nil {
		if errors.Is(err, domainerrors.ErrBadRequest) {
			response.Error(c, domainerrors.BadRequest("Amount must be positive"))
			return
		}
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if !result.OK {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// GetActiveIntent returns the caller's pending intent
// GET /api/v1/spend-intents/active
func (h *SpendIntentHandler) GetActiveIntent(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	intent, err := h.intents.GetActiveIntent(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("No active spend intent"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"intent": intent})
}

// ConsumeSpendIntent consumes a user's intent on behalf of a partner
// POST /api/v1/spend-intents/consume
func (h *SpendIntentHandler) ConsumeSpendIntent(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	if !h.policy.Evaluate(claims, usecases.ActionConsumeIntent, usecases.Resource{OwnerUserID: claims.UserID}) {
		response.Error(c, domainerrors.Forbidden("Consuming intents requires partner role"))
		return
	}

	var input entities.ConsumeSpendIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.intents.ConsumeSpendIntent(c.Request.Context(), input.UserID, input.Token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrBadRequest) {
			response.Error(c, domainerrors.BadRequest("Token is required"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// CancelSpendIntent cancels the caller's active intent
// POST /api/v1/spend-intents/cancel
func (h *SpendIntentHandler) CancelSpendIntent(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	canceled, err := h.intents.CancelSpendIntent(c.Request.Context(), claims.UserID, input.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !canceled {
		response.Success(c, http.StatusOK, gin.H{"ok": false, "code": entities.IntentCodeNoActiveIntent})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true, "code": entities.IntentCodeOK})
}
