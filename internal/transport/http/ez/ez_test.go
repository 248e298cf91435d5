package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentle-driving/internal/domain"
	resp "sentle-driving/internal/transport/http/response"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("bad"), http.StatusBadRequest, "invalid_input"},
		{domain.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.NotFound("student"), http.StatusNotFound, "not_found"},
		{fmt.Errorf("book: %w", domain.ErrVehicleConflict), http.StatusConflict, "vehicle_conflict"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_requests"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		ae := FromError(tc.err)
		assert.Equal(t, tc.status, ae.Status, tc.err.Error())
		assert.Equal(t, tc.code, ae.Code, tc.err.Error())
	}

	internal := FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal error", internal.Msg)
	assert.NotContains(t, internal.Msg, "pq")
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func serve(t *testing.T, method, body string) (int, resp.Resp) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(r.Group(""), nil)
	Register(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			if in.Name == "boom" {
				return nil, errors.New("boom")
			}
			return gin.H{"name": in.Name}, nil
		},
	})
	Register(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/private",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{}, nil
		},
	})

	path := "/echo"
	if method == http.MethodGet {
		path = "/private"
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestRegister(t *testing.T) {
	status, out := serve(t, http.MethodPost, `{"name":"ivy"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, map[string]any{"name": "ivy"}, out.Data)
	assert.Empty(t, out.Error)

	status, out = serve(t, http.MethodPost, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, resp.ErrCodeInvalidInput, out.Error)
	assert.Equal(t, "name is required", out.Msg)

	status, out = serve(t, http.MethodPost, ``)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "request body is required", out.Msg)

	status, out = serve(t, http.MethodPost, `{"name":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", out.Error)
	assert.Equal(t, "internal error", out.Msg)

	status, out = serve(t, http.MethodGet, ``)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", out.Error)
}
