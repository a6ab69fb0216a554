package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/dto"
)

// RequireAuth parses the Bearer token and stores the caller's identity on the
// gin context. Requests without a valid token are rejected.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, isAdmin, err := parseToken(ctx.GetHeader("Authorization"), secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
			return
		}
		ctx.Set(controller.CtxUserID, userID)
		ctx.Set(controller.CtxIsAdmin, isAdmin)
		ctx.Next()
	}
}

// RequireAdmin gates a route group on the admin claim. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !controller.IsAdmin(ctx) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "admin access required"})
			return
		}
		ctx.Next()
	}
}

const bearerPrefix = "Bearer "

func parseToken(header, secret string) (uint, bool, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return 0, false, fmt.Errorf("authorization header is not a bearer token")
	}
	tokenStr := strings.TrimSpace(header[len(bearerPrefix):])
	if tokenStr == "" {
		return 0, false, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("invalid subject claim: %w", err)
	}
	isAdmin, _ := claims["adm"].(bool)
	return uint(userID), isAdmin, nil
}
