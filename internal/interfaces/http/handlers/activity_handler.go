package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/internal/interfaces/http/response"
	"loyalty-ledger.backend/internal/usecases"
)

type activityService interface {
	Claim(ctx context.Context, userID int64, input *entities.ClaimInput) (*entities.ClaimResult, error)
	ListRules(ctx context.Context) ([]*entities.ActivityRule, error)
}

// ActivityHandler handles activity reward endpoints
type ActivityHandler struct {
	activities activityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activities *usecases.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Claim requests a point award for a gated activity
// POST /api/v1/activities/claim
func (h *ActivityHandler) Claim(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.ClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.activities.Claim(c.Request.Context(), claims.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListRules lists the configured activity rules
// GET /api/v1/admin/activity-rules
func (h *ActivityHandler) ListRules(c *gin.Context) {
	rules, err := h.activities.ListRules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if rules == nil {
		rules = []*entities.ActivityRule{}
	}
	response.Success(c, http.StatusOK, gin.H{"rules": rules})
}
