package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters observed by the ledger, cache and redemption paths.
var (
	LedgerTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_ledger_transactions_total",
		Help: "Ledger transactions applied, by kind.",
	}, []string{"kind"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_cache_hits_total",
		Help: "Cache reads served without touching storage.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_cache_misses_total",
		Help: "Cache reads that fell back to storage.",
	})

	VoucherRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_voucher_redemptions_total",
		Help: "Voucher redemption attempts, by result.",
	}, []string{"result"})

	ActivityClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_activity_claims_total",
		Help: "Activity reward claims, by result code.",
	}, []string{"code"})
)
