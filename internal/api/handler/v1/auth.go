package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viastore/viastore/internal/api/handler/v1/request"
	"github.com/viastore/viastore/internal/api/handler/v1/response"
	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/pkg/jwthelper"
	"github.com/viastore/viastore/internal/service"
	"github.com/viastore/viastore/internal/session"
)

type AuthService interface {
	CreateUser(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
}

type AuthHandler struct {
	conf     *config.APIConfig
	svc      AuthService
	sessions session.Store
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, sessions session.Store) *AuthHandler {
	return &AuthHandler{
		conf:     conf,
		svc:      svc,
		sessions: sessions,
	}
}

// HandleTokenLogin godoc
// @Summary      Exchange credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/token [post]
func (h *AuthHandler) HandleTokenLogin(ctx *gin.Context) {
	user, ok := h.login(ctx)
	if !ok {
		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, ctx.Request.UserAgent(), h.conf.JWTTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleTokenLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleSessionLogin godoc
// @Summary      Log in with a session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.SessionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleSessionLogin(ctx *gin.Context) {
	user, ok := h.login(ctx)
	if !ok {
		return
	}

	sess, err := h.sessions.Create(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleSessionLogin -> h.sessions.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	middleware.SetSessionCookie(ctx, sess, h.conf.CookieSecure)
	ctx.JSON(http.StatusOK, response.SessionResponse{
		User:      user,
		ExpiresIn: int64(time.Until(sess.ExpiresAt).Seconds()),
	})
}

// HandleLogout godoc
// @Summary      End the current session
// @Tags         auth
// @Success      204
// @Failure      401      {object}   response.Err
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	if id := ctx.GetString(middleware.SessionIDKey); id != "" {
		if err := h.sessions.Delete(ctx.Request.Context(), id); err != nil {
			err = fmt.Errorf("v1.HandleLogout -> h.sessions.Delete -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}
	}

	middleware.ClearSessionCookie(ctx, h.conf.CookieSecure)
	ctx.Status(http.StatusNoContent)
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreateUserRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		renderErr(ctx, "v1.HandleCreateUser -> h.svc.CreateUser", err, "username", req.Username)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) login(ctx *gin.Context) (domain.User, bool) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.User{}, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.User{}, false
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return domain.User{}, false
		}

		err = fmt.Errorf("v1.login -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return domain.User{}, false
	}

	return user, true
}
