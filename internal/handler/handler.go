package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "budgetmate/internal/errors"
)

// respondError maps a domain error to its HTTP response. Unexpected errors
// come out as a generic 500; their detail goes to the server log only.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// validationError answers 400 with the validator's field enumeration.
func validationError(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

// bindError answers 400 for an unparseable request body.
func bindError() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_BODY",
	})
}
