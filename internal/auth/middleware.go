package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
)

// claimsContextKey is where the middleware stores the verified *Claims.
const claimsContextKey = "user"

// Middleware returns the bearer-token gate for protected routes. A missing
// or malformed Authorization header, a bad signature, an expired token and a
// blacklisted token all fail closed with 401 before any handler runs.
func Middleware(jwtService *JWTService, tokenStore TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		// The cut-prefix form matters: with a custom ParseTokenFunc the
		// extractor hands over the raw header value, so the scheme has to
		// be stripped here or no well-formed token ever validates.
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				return nil, apperrors.ErrInvalidToken
			}
			if claims.ID != "" {
				revoked, _ := tokenStore.IsBlacklisted(c.Request().Context(), claims.ID)
				if revoked {
					return nil, apperrors.ErrInvalidToken
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrInvalidToken.Error(),
				Code:  "INVALID_TOKEN",
			})
		},
	})
}

// RequireAdmin gates admin-only routes. It runs after Middleware, so an
// absent claims value means the route was wired without the token gate
// and the request is rejected rather than let through.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrInvalidToken.Error(),
				Code:  "INVALID_TOKEN",
			})
		}
		if claims.Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrAdminRequired.Error(),
				Code:  "ADMIN_REQUIRED",
			})
		}
		return next(c)
	}
}

// ClaimsFromContext returns the verified claims attached by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}
