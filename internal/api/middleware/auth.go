package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/api/handler/v1/response"
	"github.com/viastore/viastore/internal/pkg/jwthelper"
	"github.com/viastore/viastore/internal/session"
)

const (
	UserIDKey    = "userID"
	SessionIDKey = "sessionID"
)

var (
	errMissingCredentials = errors.New("missing bearer token or session cookie")
	errUserAgentMismatch  = errors.New("token was issued to a different client")
)

type Authenticator struct {
	key      []byte
	sessions session.Store
}

func NewAuthenticator(key string, sessions session.Store) *Authenticator {
	return &Authenticator{
		key:      []byte(key),
		sessions: sessions,
	}
}

// VerifyJWT accepts either an "Authorization: Bearer" token or a live
// session cookie. On success the user ID is stored under UserIDKey.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if header := ctx.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
				return
			}

			claims, err := jwthelper.ParseToken(a.key, strings.TrimSpace(token))
			if err != nil {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
				return
			}
			if claims.UserAgent != ctx.Request.UserAgent() {
				response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
				return
			}

			ctx.Set(UserIDKey, claims.UserID)
			ctx.Next()
			return
		}

		sess, ok := a.session(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingCredentials))
			return
		}

		ctx.Set(UserIDKey, sess.UserID)
		ctx.Set(SessionIDKey, sess.ID)
		ctx.Next()
	}
}

// RequireSession guards the HTML pages. Visitors without a session are sent
// to loginPath with the page they asked for in "next".
func (a *Authenticator) RequireSession(loginPath string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess, ok := a.session(ctx)
		if !ok {
			target := loginPath
			if ctx.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(ctx.Request.URL.RequestURI())
			}
			ctx.Redirect(http.StatusSeeOther, target)
			ctx.Abort()
			return
		}

		ctx.Set(UserIDKey, sess.UserID)
		ctx.Set(SessionIDKey, sess.ID)
		ctx.Next()
	}
}

func (a *Authenticator) session(ctx *gin.Context) (session.Session, bool) {
	id, err := ctx.Cookie(session.CookieName)
	if err != nil || id == "" {
		return session.Session{}, false
	}

	sess, err := a.sessions.Get(ctx.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			zap.L().Warn("session lookup failed", zap.Error(err))
		}
		return session.Session{}, false
	}

	return sess, true
}

func SetSessionCookie(ctx *gin.Context, sess session.Session, secure bool) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(session.CookieName, sess.ID, int(time.Until(sess.ExpiresAt).Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(ctx *gin.Context, secure bool) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(session.CookieName, "", -1, "/", "", secure, true)
}
