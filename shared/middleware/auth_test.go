package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacilogs/bacilogs/shared/domain"
	jwt_internal "github.com/bacilogs/bacilogs/shared/jwt"
	"github.com/bacilogs/bacilogs/shared/middleware/ratelimiter"
)

func TestNeedAuth(t *testing.T) {
	jwtService := jwt_internal.New("test_secret", time.Hour)
	user := domain.User{Id: "u-1", Username: "Gizemeh"}
	token, err := jwtService.NewToken(user)
	require.NoError(t, err)
	expired, err := jwt_internal.New("test_secret", -time.Hour).NewToken(user)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		cookie         *http.Cookie
		expectedStatus int
		expectedUser   *domain.User
	}{
		{
			name:           "Bearer header",
			header:         "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectedUser:   &domain.User{Id: "u-1", Username: "Gizemeh"},
		},
		{
			name:           "Cookie",
			cookie:         &http.Cookie{Name: AccessTokenCookie, Value: token},
			expectedStatus: http.StatusOK,
			expectedUser:   &domain.User{Id: "u-1", Username: "Gizemeh"},
		},
		{
			name:           "No token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid token",
			header:         "Bearer invalid_token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired token",
			header:         "Bearer " + expired,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	auth := NewAuth(jwtService)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *domain.User
			handler := auth.NeedAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserFromContext(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedUser, gotUser)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	auth := NewAuth(jwt_internal.New("test_secret", time.Hour))
	called := false
	handler := auth.OptionalAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}

func TestRateLimitLogin(t *testing.T) {
	rl := ratelimiter.PerMinute(1)
	handler := RateLimit(rl, GetUsernameFromBody)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send(`{"username":"Arül"}`))
	assert.Equal(t, http.StatusTooManyRequests, send(`{"username":"arül "}`))
	assert.Equal(t, http.StatusOK, send(`{"username":"Gizemeh"}`))
}
