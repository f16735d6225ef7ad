package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roadmap-review/logger"
	"roadmap-review/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHelper(t *testing.T) *HTTPHelper {
	t.Helper()
	h, err := NewHTTPHelper(logger.NewNop())
	require.NoError(t, err)
	return h
}

func TestGetStatusCode(t *testing.T) {
	h := newTestHelper(t)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", models.ErrorValidation{Message: "x"}, http.StatusBadRequest},
		{"invalid state", models.ErrorInvalidState{Message: "x"}, http.StatusBadRequest},
		{"unauthorized", models.ErrorUnauthorized{Message: "x"}, http.StatusUnauthorized},
		{"forbidden", models.ErrorForbidden{Message: "x"}, http.StatusForbidden},
		{"not found", models.ErrorNotFound{Message: "x"}, http.StatusNotFound},
		{"conflict", models.ErrorConflict{Message: "x"}, http.StatusConflict},
		{"wrapped conflict", errors.Join(errors.New("ctx"), models.ErrorConflict{Message: "x"}), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.GetStatusCode(tt.err))
		})
	}
}

func performJSON(t *testing.T, handler gin.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestBindJSONTranslatesValidationErrors(t *testing.T) {
	h := newTestHelper(t)

	w, out := performJSON(t, func(c *gin.Context) {
		var req models.RegisterRequest
		if err := h.BindJSON(c, &req); err != nil {
			h.SendError(c, err)
			return
		}
		h.SendSuccess(c, "ok", nil)
	}, `{"email":"not-an-email","password":"short","displayName":"Ada"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", out["error"])
	fields := out["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, out["message"], "password must be at least 8 characters")
}

func TestSendErrorHidesInternalDetail(t *testing.T) {
	h := newTestHelper(t)

	w, out := performJSON(t, func(c *gin.Context) {
		h.SendError(c, models.ErrorInternalServer{Message: "db", Err: errors.New("connection refused")})
	}, `{}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", out["error"])
	assert.Equal(t, "Internal server error.", out["message"])
}

func TestSendActionResult(t *testing.T) {
	h := newTestHelper(t)
	v := 3

	_, out := performJSON(t, func(c *gin.Context) {
		h.SendActionResult(c, &models.UpdateRoadmapResult{Message: "done", Version: &v})
	}, `{}`)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "done", out["message"])
	assert.EqualValues(t, 3, out["version"])

	_, out = performJSON(t, func(c *gin.Context) {
		h.SendActionResult(c, &models.UpdateRoadmapResult{Message: "done"})
	}, `{}`)
	assert.NotContains(t, out, "version")
}

func TestGeneratePaging(t *testing.T) {
	h := newTestHelper(t)
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/public/roadmaps?domain=backend&page=2", nil)

	paging := h.GeneratePaging(c, 0, 0, 10, 2, 35)

	assert.Equal(t, 4, paging["total_pages"])
	links := paging["links"].(map[string]interface{})
	assert.Equal(t, "http://example.com/api/v1/public/roadmaps?domain=backend&limit=10&page=3", links["next"])
	assert.Equal(t, "http://example.com/api/v1/public/roadmaps?domain=backend&limit=10&page=1", links["previous"])
	assert.Equal(t, "http://example.com/api/v1/public/roadmaps?domain=backend&limit=10&page=4", links["last"])
}
