package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	require.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestConfigureLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer func() {
		SetLogOutput(os.Stdout)
		ConfigureLogger("info", "json")
	}()

	ConfigureLogger("warn", "json")
	Info("hidden", nil)
	require.Zero(t, buf.Len())

	Warn("shown", map[string]any{"k": "v"})
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "shown", entry["msg"])
	require.Equal(t, "v", entry["k"])

	buf.Reset()
	ConfigureLogger("bogus", "text")
	Debug("hidden", nil)
	Info("plain", nil)
	require.Contains(t, buf.String(), "msg=plain")
}

func TestJSONEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONResponse(c, http.StatusCreated, gin.H{"id": "1"}, "created")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(http.StatusCreated), body["status"])
	require.Equal(t, "created", body["message"])
	require.Equal(t, map[string]any{"id": "1"}, body["data"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONValidationError(c, http.StatusBadRequest, errors.New("bad"), "invalid", map[string]string{"name": "is required"})

	body = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bad", body["error"])
	require.Equal(t, map[string]any{"name": "is required"}, body["details"])
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	require.Len(t, a, 40)

	b, err := GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
