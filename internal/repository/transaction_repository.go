package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgetmate/internal/model"
)

// TypeTotal is one row of the totals aggregation.
type TypeTotal struct {
	Type  model.TransactionType `json:"type"`
	Total decimal.Decimal       `json:"total"`
}

// TransactionRepository defines ledger persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error)
	ListAll(ctx context.Context) ([]model.Transaction, error)
	Delete(ctx context.Context, id uint) (int64, error)
	TotalsByType(ctx context.Context, userID *uint) ([]TypeTotal, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time_of_entry DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Order("time_of_entry DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// Delete removes a transaction row and returns how many rows matched.
func (r *transactionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	return res.RowsAffected, res.Error
}

// TotalsByType sums amounts grouped by type. A nil userID aggregates over
// all rows (admin visibility); otherwise only the user's own rows count.
func (r *transactionRepository) TotalsByType(ctx context.Context, userID *uint) ([]TypeTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("type, SUM(amount) AS total").
		Group("type")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var totals []TypeTotal
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
