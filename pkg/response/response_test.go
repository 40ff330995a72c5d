package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, map[string]any{"id": float64(1)}, body.Data)
}

func TestErrorDetail(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { BadRequest(c, "Invalid file", errors.New("bad header")) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file: bad header", body.Message)
	assert.Nil(t, body.Data)

	w, body = serve(t, func(c *gin.Context) { InternalError(c, "Failed to import", errors.New("disk I/O error at /var/db")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Equal(t, "Failed to import", body.Message)
}
