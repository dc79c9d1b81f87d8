package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/internal/interfaces/http/response"
	"loyalty-ledger.backend/internal/usecases"
)

type ledgerService interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	GetTransactions(ctx context.Context, userID int64, page, limit int) (*usecases.TransactionPage, error)
	AdminAdjust(ctx context.Context, userID, delta int64, note, ref, idemKey string) (*entities.Transaction, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	ledger ledgerService
	policy *usecases.AccessPolicy
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledger *usecases.LedgerUsecase, policy *usecases.AccessPolicy) *WalletHandler {
	return &WalletHandler{ledger: ledger, policy: policy}
}

// GetBalance returns the caller's point balance
// GET /api/v1/wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	if !h.policy.Evaluate(claims, usecases.ActionViewWallet, usecases.Resource{OwnerUserID: claims.UserID}) {
		response.Error(c, domainerrors.Forbidden("Not allowed to view this wallet"))
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"userId":     claims.UserID,
		"balancePts": balance,
	})
}

// GetTransactions returns the caller's ledger entries, newest first
// GET /api/v1/wallet/transactions?page=&limit=
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	if !h.policy.Evaluate(claims, usecases.ActionViewWallet, usecases.Resource{OwnerUserID: claims.UserID}) {
		response.Error(c, domainerrors.Forbidden("Not allowed to view this wallet"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.ledger.GetTransactions(c.Request.Context(), claims.UserID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Items == nil {
		result.Items = []*entities.Transaction{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"transactions": result.Items,
		"pagination":   result.Meta,
	})
}

// AdjustBalance applies an administrative balance adjustment
// POST /api/v1/admin/wallets/:userId/adjust
func (h *WalletHandler) AdjustBalance(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if !h.policy.Evaluate(claims, usecases.ActionAdjustBalance, usecases.Resource{OwnerUserID: userID}) {
		response.Error(c, domainerrors.Forbidden("Balance adjustments require admin role"))
		return
	}

	var input entities.AdjustBalanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	idemKey := c.GetHeader(middleware.IdempotencyHeader)
	tx, err := h.ledger.AdminAdjust(c.Request.Context(), userID, input.DeltaPts, input.Note, input.Ref, idemKey)
	if err != nil {
		if errors.Is(err, domainerrors.ErrBadRequest) {
			response.Error(c, domainerrors.BadRequest("Delta must be non-zero"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"transaction": tx,
		"balancePts":  tx.BalanceAfter,
	})
}
