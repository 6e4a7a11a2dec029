package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation error surfaces its message",
			err:        domain.NewValidationError("Title is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Title is required",
		},
		{
			name:       "wrapped unauthenticated hides detail",
			err:        fmt.Errorf("%w: token is expired", domain.ErrUnauthenticated),
			wantStatus: http.StatusUnauthorized,
			wantError:  domain.ErrUnauthenticated.Error(),
		},
		{
			name:       "forbidden",
			err:        domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantError:  domain.ErrForbidden.Error(),
		},
		{
			name:       "job not found",
			err:        fmt.Errorf("lookup: %w", domain.ErrJobNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "Job not found",
		},
		{
			name:       "upstream error is replaced by fallback",
			err:        errors.New("pq: relation \"jobs\" does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Something went wrong.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/jobs", nil)

			Error(c, log, tt.err, "Something went wrong.")

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus, Status(tt.err))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}
