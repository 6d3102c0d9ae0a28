package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"budgetmate/internal/auth"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/service"
)

// UserHandler handles profile and user-administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a partial profile update. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// GetSelf godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) GetSelf(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}
	user, err := h.userService.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateSelf godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) UpdateSelf(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, err := h.userService.UpdateSelf(c.Request().Context(), claims.UserID, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user by id (self, or any user when admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_ID",
		})
	}

	// Owners may remove themselves; removing anyone else takes admin.
	if uint(id) != claims.UserID && claims.Role != model.RoleAdmin {
		return respondError(c, apperrors.ErrAdminRequired)
	}

	if err := h.userService.Delete(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}
