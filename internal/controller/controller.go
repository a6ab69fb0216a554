// Package controller holds the helpers shared by the user and admin HTTP
// handlers: error classification and common parameter parsing.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
)

// StatusOf maps the error taxonomy onto HTTP status codes. Raw internal
// errors never reach the client; only the wrapped message does.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, errs.ErrLastAdminProtected):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes the error as a short human-readable message with the mapped
// status code.
func Fail(ctx *gin.Context, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message})
}

// IDParam parses a numeric path parameter.
func IDParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid " + name + " format"})
		return 0, false
	}
	return uint(value), true
}

// Identity keys set by the auth middleware.
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// CurrentUserID returns the authenticated caller's id from the gin context.
func CurrentUserID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(CtxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// IsAdmin reports whether the authenticated caller carries the admin claim.
func IsAdmin(ctx *gin.Context) bool {
	if v, ok := ctx.Get(CtxIsAdmin); ok {
		if admin, ok := v.(bool); ok {
			return admin
		}
	}
	return false
}
