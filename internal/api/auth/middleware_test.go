package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newProtectedRouter serves GET /protected behind the given middleware and
// records whether the handler ran.
func newProtectedRouter(handlerRan *bool, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(middleware, func(c *gin.Context) {
		*handlerRan = true
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/protected", chain...)
	return r
}

func serve(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tokens := NewTokenService(testSecret, "job-board", time.Hour)
	userToken, err := tokens.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{name: "valid token", authorization: "Bearer " + userToken, wantStatus: http.StatusOK},
		{name: "lowercase scheme", authorization: "bearer " + userToken, wantStatus: http.StatusOK},
		{name: "missing header", authorization: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "empty token", authorization: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", authorization: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran bool
			r := newProtectedRouter(&ran, Authenticate(tokens, discardLogger()))

			w := serve(r, tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, ran)

			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, domain.ErrUnauthenticated.Error(), body["error"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenService(testSecret, "job-board", time.Hour)
	adminToken, err := tokens.Issue("admin-1", domain.RoleAdmin)
	require.NoError(t, err)
	userToken, err := tokens.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	t.Run("admin passes", func(t *testing.T) {
		var ran bool
		r := newProtectedRouter(&ran, Authenticate(tokens, discardLogger()), RequireRole(discardLogger(), domain.RoleAdmin))

		w := serve(r, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, ran)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		var ran bool
		r := newProtectedRouter(&ran, Authenticate(tokens, discardLogger()), RequireRole(discardLogger(), domain.RoleAdmin))

		w := serve(r, "Bearer "+userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, ran)
	})

	t.Run("any of several roles", func(t *testing.T) {
		var ran bool
		r := newProtectedRouter(&ran, Authenticate(tokens, discardLogger()), RequireRole(discardLogger(), domain.RoleAdmin, domain.RoleUser))

		w := serve(r, "Bearer "+userToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, ran)
	})

	t.Run("no principal fails closed", func(t *testing.T) {
		var ran bool
		r := newProtectedRouter(&ran, RequireRole(discardLogger(), domain.RoleAdmin, domain.RoleUser))

		w := serve(r, "Bearer "+adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, ran)
	})
}
