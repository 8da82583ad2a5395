package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	alice = model.User{UserID: "user1", Username: "alice", Email: "alice@example.com"}
	bob   = model.User{UserID: "user2", Username: "bob", Email: "bob@example.com"}
)

// newTestRouter returns a gin engine whose requests run as principal (none if zero)
func newTestRouter(principal model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	helpers.RegisterValidators()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal.UserID != "" {
			helpers.SetPrincipal(c, principal)
		}
		c.Next()
	})
	return router
}

// perform sends body (a string is sent verbatim, anything else JSON encoded) and decodes the envelope
func perform(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}
