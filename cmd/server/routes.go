package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"loyalty-ledger.backend/internal/interfaces/http/handlers"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/pkg/cache"
)

type routeDeps struct {
	walletHandler   *handlers.WalletHandler
	intentHandler   *handlers.SpendIntentHandler
	voucherHandler  *handlers.VoucherHandler
	activityHandler *handlers.ActivityHandler
	authMiddleware  gin.HandlerFunc
	store           cache.Store
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("/balance", d.walletHandler.GetBalance)
			wallet.GET("/transactions", d.walletHandler.GetTransactions)
		}

		// Spend intent routes (protected)
		intents := v1.Group("/spend-intents")
		intents.Use(d.authMiddleware)
		{
			intents.POST("", middleware.IdempotencyMiddleware(d.store), d.intentHandler.CreateSpendIntent)
			intents.GET("/active", d.intentHandler.GetActiveIntent)
			intents.POST("/cancel", d.intentHandler.CancelSpendIntent)
			intents.POST("/consume", middleware.RequirePartner(), d.intentHandler.ConsumeSpendIntent)
		}

		// Voucher routes (partner surface)
		vouchers := v1.Group("/vouchers")
		vouchers.Use(d.authMiddleware, middleware.RequirePartner())
		{
			vouchers.POST("", d.voucherHandler.Issue)
			vouchers.POST("/redeem", d.voucherHandler.Redeem)
		}

		// Activity routes (protected; authentication runs before any
		// feature flag or rule evaluation)
		activities := v1.Group("/activities")
		activities.Use(d.authMiddleware)
		{
			activities.POST("/claim", middleware.IdempotencyMiddleware(d.store), d.activityHandler.Claim)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/wallets/:userId/adjust", middleware.IdempotencyMiddleware(d.store), d.walletHandler.AdjustBalance)
			admin.GET("/activity-rules", d.activityHandler.ListRules)
		}
	}
}
