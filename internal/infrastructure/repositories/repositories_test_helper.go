package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		user_id INTEGER PRIMARY KEY,
		balance_pts INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		delta_pts INTEGER NOT NULL,
		balance_after INTEGER NOT NULL,
		ref TEXT,
		note TEXT,
		idempotency_key TEXT,
		created_at DATETIME,
		UNIQUE (user_id, idempotency_key)
	);`)
}

func createSpendIntentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE spend_intents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT UNIQUE NOT NULL,
		amount_pts INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		expires_at DATETIME NOT NULL,
		consumed_at DATETIME
	);`)
}

func createVoucherTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE vouchers (
		token TEXT PRIMARY KEY,
		owning_resource_id INTEGER NOT NULL,
		owner_user_id INTEGER NOT NULL,
		is_redeemed BOOLEAN NOT NULL DEFAULT 0,
		redeemed_at DATETIME,
		redeemed_by INTEGER,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}

func createActivityRuleTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE activity_rules (
		code TEXT PRIMARY KEY,
		points INTEGER NOT NULL,
		cooldown_seconds INTEGER NOT NULL,
		requires_geo BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
