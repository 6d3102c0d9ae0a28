package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgetmate/internal/cache"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
)

const totalsCacheTTL = time.Minute

// Cache is the slice of the redis wrapper the services need. An interface
// so tests can substitute an in-memory fake; *cache.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TransactionService handles the ledger: append, list, delete, totals.
type TransactionService interface {
	Add(ctx context.Context, userID uint, txnType model.TransactionType, description string, amount decimal.Decimal) (*model.Transaction, error)
	List(ctx context.Context, userID uint, role model.Role) ([]model.Transaction, error)
	Delete(ctx context.Context, id uint) error
	Totals(ctx context.Context, userID uint, role model.Role) (map[model.TransactionType]decimal.Decimal, error)
}

type transactionService struct {
	txnRepo repository.TransactionRepository
	cache   Cache
}

// NewTransactionService creates a new ledger service.
func NewTransactionService(txnRepo repository.TransactionRepository, cache Cache) TransactionService {
	return &transactionService{
		txnRepo: txnRepo,
		cache:   cache,
	}
}

func totalsCacheKey(userID uint, role model.Role) string {
	if role == model.RoleAdmin {
		return cache.TotalsAllKey
	}
	return cache.TotalsKey(userID)
}

// Add appends a ledger entry owned by the caller. Entries are immutable
// once created; the entry timestamp is always server-assigned.
func (s *transactionService) Add(ctx context.Context, userID uint, txnType model.TransactionType, description string, amount decimal.Decimal) (*model.Transaction, error) {
	if !txnType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.ErrEmptyDescription
	}
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	txn := &model.Transaction{
		Type:        txnType,
		Description: description,
		Amount:      amount,
		TimeOfEntry: time.Now(),
		UserID:      userID,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.invalidateTotals(ctx, userID)
	return txn, nil
}

// List returns the caller-visible ledger, newest entry first. Admins see
// every user's entries; everyone else only their own.
func (s *transactionService) List(ctx context.Context, userID uint, role model.Role) ([]model.Transaction, error) {
	if role == model.RoleAdmin {
		return s.txnRepo.ListAll(ctx)
	}
	return s.txnRepo.ListByUser(ctx, userID)
}

// Delete removes a ledger entry by id. The admin-only policy is enforced
// at the route; a second delete of the same id reports not found.
func (s *transactionService) Delete(ctx context.Context, id uint) error {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return fmt.Errorf("find transaction: %w", err)
	}

	rows, err := s.txnRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrTransactionNotFound
	}

	s.invalidateTotals(ctx, txn.UserID)
	return nil
}

// Totals sums the caller-visible ledger by type. Both types are always
// present in the result, zero-valued when no entries exist. Sums are exact
// decimal arithmetic; there is no binary floating point on this path.
func (s *transactionService) Totals(ctx context.Context, userID uint, role model.Role) (map[model.TransactionType]decimal.Decimal, error) {
	key := totalsCacheKey(userID, role)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached map[model.TransactionType]decimal.Decimal
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var scope *uint
	if role != model.RoleAdmin {
		scope = &userID
	}
	rows, err := s.txnRepo.TotalsByType(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("aggregate totals: %w", err)
	}

	totals := map[model.TransactionType]decimal.Decimal{
		model.TransactionTypeIncome:  decimal.Zero,
		model.TransactionTypeExpense: decimal.Zero,
	}
	for _, row := range rows {
		totals[row.Type] = row.Total
	}

	if payload, err := json.Marshal(totals); err == nil {
		_ = s.cache.Set(ctx, key, payload, totalsCacheTTL)
	}
	return totals, nil
}

// invalidateTotals drops the cached totals affected by a ledger change:
// the owner's own aggregate and the admin-wide one.
func (s *transactionService) invalidateTotals(ctx context.Context, userID uint) {
	_ = s.cache.Delete(ctx, cache.TotalsKey(userID))
	_ = s.cache.Delete(ctx, cache.TotalsAllKey)
}
