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
	"loyalty-ledger.backend/pkg/jwt"
)

type voucherService interface {
	Redeem(ctx context.Context, claims *jwt.Claims, token string) (*entities.RedeemResult, error)
	IssueVoucher(ctx context.Context, ownerUserID, resourceID int64, ttl time.Duration) (*entities.Voucher, error)
}

// VoucherHandler handles voucher endpoints
type VoucherHandler struct {
	vouchers voucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(vouchers *usecases.VoucherUsecase) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// Redeem consumes a voucher token exactly once
// POST /api/v1/vouchers/redeem
func (h *VoucherHandler) Redeem(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.RedeemVoucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.vouchers.Redeem(c.Request.Context(), claims, input.Token)
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

// Issue creates a voucher bound to one of the caller's resources
// POST /api/v1/vouchers
func (h *VoucherHandler) Issue(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input struct {
		ResourceID int64 `json:"resourceId" binding:"required"`
		TTLMinutes int   `json:"ttlMinutes" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	voucher, err := h.vouchers.IssueVoucher(c.Request.Context(), claims.UserID, input.ResourceID,
		time.Duration(input.TTLMinutes)*time.Minute)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"voucher": voucher})
}
