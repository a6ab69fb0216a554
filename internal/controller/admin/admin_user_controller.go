package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/service"
)

// UserController handles admin account management.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers godoc
// @Summary List all users with their attempt counts
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.AdminUserDTO
// @Security BearerAuth
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.ListUsers()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user, optionally with admin rights
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.UserCreateRequest true "New user"
// @Success 201 {object} dto.UserDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.UserCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	user, err := c.userService.CreateUser(req)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Rename a user or change their admin flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body dto.UserUpdateRequest true "Fields to change"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.userService.UpdateUser(id, req); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// ResetPassword godoc
// @Summary Set a new password for a user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body dto.PasswordResetRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Password too short"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/password [put]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.PasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.userService.ResetPassword(id, req.NewPassword); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

// DeleteUser godoc
// @Summary Delete a user and their attempts
// @Description Refused when the target is the last remaining admin account.
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Last admin account"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.userService.DeleteUser(id); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
