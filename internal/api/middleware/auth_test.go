package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/pkg/jwthelper"
	"github.com/viastore/viastore/internal/session"
)

const (
	signingKey = "test-signing-key"
	userAgent  = "kiosk/1.0"
)

func newRouter(t *testing.T) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewMemoryStore(time.Hour)
	auth := middleware.NewAuthenticator(signingKey, sessions)

	whoami := func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(middleware.UserIDKey)})
	}

	r := gin.New()
	r.GET("/api/me", auth.VerifyJWT(), whoami)
	r.GET("/items", auth.RequireSession("/login"), whoami)
	r.POST("/items", auth.RequireSession("/login"), whoami)

	return r, sessions
}

func TestVerifyJWT(t *testing.T) {
	r, sessions := newRouter(t)

	token, err := jwthelper.GenerateToken([]byte(signingKey), 7, userAgent, time.Hour)
	require.NoError(t, err)
	otherKey, err := jwthelper.GenerateToken([]byte("other"), 7, userAgent, time.Hour)
	require.NoError(t, err)
	sess, err := sessions.Create(context.Background(), 9)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		userAgent string
		cookie    string
		want      int
		wantBody  string
	}{
		{name: "bearer token", header: "Bearer " + token, userAgent: userAgent, want: http.StatusOK, wantBody: `{"user_id":7}`},
		{name: "token from another client", header: "Bearer " + token, userAgent: "curl/8", want: http.StatusUnauthorized},
		{name: "token signed with another key", header: "Bearer " + otherKey, userAgent: userAgent, want: http.StatusUnauthorized},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz", want: http.StatusUnauthorized},
		{name: "session cookie", cookie: sess.ID, want: http.StatusOK, wantBody: `{"user_id":9}`},
		{name: "unknown session", cookie: "nope", want: http.StatusUnauthorized},
		{name: "nothing", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			req.Header.Set("User-Agent", tt.userAgent)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	r, sessions := newRouter(t)

	t.Run("get redirects with next", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=2", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fitems%3Fpage%3D2", w.Header().Get("Location"))
	})

	t.Run("post redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("live session passes", func(t *testing.T) {
		sess, err := sessions.Create(context.Background(), 3)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
	})

	t.Run("bearer token is not enough for pages", func(t *testing.T) {
		token, err := jwthelper.GenerateToken([]byte(signingKey), 7, userAgent, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
	})
}
