package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"budgetmate/internal/auth"
	"budgetmate/internal/model"
	"budgetmate/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) *AuthHandler {
	return &AuthHandler{authService: authService, jwtService: jwtService, tokenStore: tokenStore}
}

// RegisterRequest represents a user registration request. The role field is
// only honored when the request carries a valid admin bearer token.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful login response.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role, h.callerIsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    user,
	})
}

// Logout godoc
// @Summary Logout and revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, _ := auth.ClaimsFromContext(c)
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// callerIsAdmin peeks at an optional bearer token on the public register
// route. Registration never requires a token, but only a verified admin
// may assign a non-default role. The check mirrors the route middleware,
// blacklist included, so a logged-out admin token carries no weight here.
func (h *AuthHandler) callerIsAdmin(c echo.Context) bool {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := h.jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return false
	}
	if claims.ID != "" {
		revoked, _ := h.tokenStore.IsBlacklisted(c.Request().Context(), claims.ID)
		if revoked {
			return false
		}
	}
	return claims.Role == model.RoleAdmin
}
