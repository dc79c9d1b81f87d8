package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withClaims injects verified identity claims the way the auth middleware
// would after token validation.
func withClaims(claims *jwt.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
		c.Next()
	}
}

func performJSON(t *testing.T, r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func memberClaims(userID int64) *jwt.Claims {
	return &jwt.Claims{UserID: userID, Role: "member", Source: "mobile-app"}
}
