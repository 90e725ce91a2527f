package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
	"github.com/noah-isme/match-scheduler-gateway/pkg/middleware/requestid"
)

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/", handler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorCarriesCodeAndRequestID(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "stage is not ready"))
	})

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PRECONDITION_FAILED", body.Error.Code)
	assert.Equal(t, "stage is not ready", body.Error.Message)
	assert.Equal(t, "req-42", body.Meta["request_id"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorNormalisesPlainErrors(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, assert.AnError)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestAttachment(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Attachment(c, "matches-7.csv", "text/csv", []byte("Match,Round\n1,1\n"))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="matches-7.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "Match,Round\n1,1\n", w.Body.String())
}
