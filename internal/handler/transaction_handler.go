package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"budgetmate/internal/auth"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/service"
)

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	txnService service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txnService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// AddTransactionRequest represents a ledger-append request.
type AddTransactionRequest struct {
	Type        model.TransactionType `json:"type" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Amount      decimal.Decimal       `json:"amount" validate:"required"`
}

// Add godoc
// @Summary Record an income or expense entry
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddTransactionRequest true "Transaction data"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Add(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}

	var req AddTransactionRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	txn, err := h.txnService.Add(c.Request().Context(), claims.UserID, req.Type, req.Description, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// List godoc
// @Summary List visible transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}

	txns, err := h.txnService.List(c.Request().Context(), claims.UserID, claims.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, txns)
}

// Delete godoc
// @Summary Delete a transaction by id
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204 "deleted"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid transaction id",
			Code:  "INVALID_ID",
		})
	}

	if err := h.txnService.Delete(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Totals godoc
// @Summary Total amounts grouped by transaction type
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions/totals [get]
func (h *TransactionHandler) Totals(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return respondError(c, apperrors.ErrInvalidToken)
	}

	totals, err := h.txnService.Totals(c.Request().Context(), claims.UserID, claims.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, totals)
}
