package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viastore/viastore/internal/api/handler/v1/response"
	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/service"
)

// reference is stored on stock movements made through the JSON API.
const reference = "api"

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.HealthResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("%s must be a positive integer", param)))
		return 0, false
	}

	return uint(id), true
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	userID := ctx.GetUint(middleware.UserIDKey)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthorized(errors.New("no authenticated user"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(err)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}

// renderErr maps a service error onto the API error body. key and value
// describe the looked-up resource for 404 messages.
func renderErr(ctx *gin.Context, op string, err error, key string, value any) {
	var fieldErr *service.FieldError

	switch {
	case errors.As(err, &fieldErr):
		response.RenderErr(ctx, response.ErrValidation(err, map[string]string{fieldErr.Field: fieldErr.Err.Error()}))
	case errors.Is(err, service.ErrItemNotFound):
		response.RenderErr(ctx, response.ErrNotFound("item", key, value))
	case errors.Is(err, service.ErrWarehouseNotFound):
		response.RenderErr(ctx, response.ErrNotFound("warehouse", key, value))
	case errors.Is(err, service.ErrOrderNotFound):
		response.RenderErr(ctx, response.ErrNotFound("order", key, value))
	case errors.Is(err, service.ErrNoWarehouseAvailable):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoWarehouseAvailable))
	case service.IsImportRejection(err):
		response.RenderErr(ctx, response.ErrBadRequest(unwrapRow(err)))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}

// unwrapRow drops the call-chain prefix so clients only see the row message.
func unwrapRow(err error) error {
	var rowErr *service.RowError
	if errors.As(err, &rowErr) {
		return rowErr
	}

	return err
}
