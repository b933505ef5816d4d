package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/app/models/dto"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
	"github.com/yigit/rankpredictor/internal/pkg/auth"
	"github.com/yigit/rankpredictor/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      dto.ErrorCode
		wantField string
	}{
		{"validation", apperrors.NewValidationError("rank", "must be a positive integer"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "rank"},
		{"bad request", apperrors.NewBadRequestError("bad yaml"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
		{"not configured", apperrors.NewNotConfiguredError("iit-x", "NEET-UG"), http.StatusNotFound, dto.ErrorCodeNotConfigured, ""},
		{"not found", apperrors.NewResourceNotFoundError("no such exam"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"store down", apperrors.NewServiceUnavailableError(errors.New("conn refused")), http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, ""},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, ""},
		{"forbidden", apperrors.NewForbiddenError("operators only"), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.wantField, detail.Field)
		})
	}
}

func TestHandleAPIErrorNotConfiguredDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewNotConfiguredError("iit-x", "NEET-UG"))

	detail := decodeError(t, w)
	assert.Equal(t, map[string]interface{}{"collegeSlug": "iit-x", "examType": "NEET-UG"}, detail.Details)
}

func TestLoggerSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) {
		RequestLogger(c).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"requestId":"`+id+`"`)
		assert.Contains(t, buf.String(), `"status":204`)
		assert.Contains(t, buf.String(), "inside")
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid\nforged")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "not-a-uuid\nforged", w.Header().Get(RequestIDHeader))
	})
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	var hasDeadline bool
	r.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

type rankQuery struct {
	Rank    int      `form:"rank" binding:"required,min=1"`
	College []string `form:"college" binding:"omitempty,dive,slug"`
}

func TestBindQuery(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		var q rankQuery
		if !BindQuery(c, &q) {
			return
		}
		c.JSON(http.StatusOK, q)
	})

	tests := []struct {
		query  string
		status int
		field  string
	}{
		{"rank=10&college=iit-delhi", http.StatusOK, ""},
		{"", http.StatusBadRequest, "rank"},
		{"rank=0", http.StatusBadRequest, "rank"},
		{"rank=abc", http.StatusBadRequest, ""},
		{"rank=5&college=iit%20delhi", http.StatusBadRequest, "college[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadRequest {
				detail := decodeError(t, w)
				assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
				assert.Equal(t, tt.field, detail.Field)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleOperator), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSubject))
	})

	operator, _, err := jwtService.GenerateToken("ops", models.RoleOperator)
	require.NoError(t, err)
	viewer, _, err := jwtService.GenerateToken("someone", models.RoleType("VIEWER"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"missing", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bad scheme", "Basic abc", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"operator", "Bearer " + operator, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w).Code)
			} else {
				assert.Equal(t, "ops", w.Body.String())
			}
		})
	}
}
