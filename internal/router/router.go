package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"budgetmate/internal/auth"
	"budgetmate/internal/config"
	"budgetmate/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	txnHandler *handler.TransactionHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a valid, non-revoked bearer token)
	secured := api.Group("", auth.Middleware(jwtService, tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	// Profile routes
	secured.GET("/user", userHandler.GetSelf)
	secured.PUT("/user", userHandler.UpdateSelf)
	secured.DELETE("/user/:id", userHandler.DeleteUser)

	// Ledger routes
	secured.GET("/transactions", txnHandler.List)
	secured.POST("/transactions", txnHandler.Add)
	secured.GET("/transactions/totals", txnHandler.Totals)
	secured.DELETE("/transactions/:id", txnHandler.Delete, auth.RequireAdmin)

	// Admin routes
	admin := secured.Group("/admin", auth.RequireAdmin)
	admin.GET("/users", userHandler.ListUsers)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
