package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"budgetmate/internal/cache"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
)

// fakeCache is an in-memory Cache recording deletions, shared by the
// service tests in this package.
type fakeCache struct {
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListAll(ctx context.Context) ([]model.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) TotalsByType(ctx context.Context, userID *uint) ([]repository.TypeTotal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TypeTotal), args.Error(1)
}

func TestTransactionService_Add(t *testing.T) {
	tests := []struct {
		name          string
		txnType       model.TransactionType
		description   string
		amount        decimal.Decimal
		setupMock     func(*MockTransactionRepository)
		expectedError error
	}{
		{
			name:        "successful append",
			txnType:     model.TransactionTypeIncome,
			description: "Salary",
			amount:      decimal.NewFromInt(1000),
			setupMock: func(m *MockTransactionRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
			},
		},
		{
			name:          "unknown type rejected",
			txnType:       model.TransactionType("Transfer"),
			description:   "Salary",
			amount:        decimal.NewFromInt(1000),
			setupMock:     func(m *MockTransactionRepository) {},
			expectedError: apperrors.ErrInvalidTransactionType,
		},
		{
			name:          "empty description rejected",
			txnType:       model.TransactionTypeExpense,
			description:   "   ",
			amount:        decimal.NewFromInt(10),
			setupMock:     func(m *MockTransactionRepository) {},
			expectedError: apperrors.ErrEmptyDescription,
		},
		{
			name:          "zero amount rejected",
			txnType:       model.TransactionTypeExpense,
			description:   "Coffee",
			amount:        decimal.Zero,
			setupMock:     func(m *MockTransactionRepository) {},
			expectedError: apperrors.ErrInvalidAmount,
		},
		{
			name:          "negative amount rejected",
			txnType:       model.TransactionTypeExpense,
			description:   "Coffee",
			amount:        decimal.NewFromInt(-3),
			setupMock:     func(m *MockTransactionRepository) {},
			expectedError: apperrors.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTransactionRepository)
			tt.setupMock(mockRepo)

			svc := NewTransactionService(mockRepo, newFakeCache())
			txn, err := svc.Add(context.Background(), 42, tt.txnType, tt.description, tt.amount)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, txn)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, txn)
				assert.Equal(t, uint(42), txn.UserID)
				assert.Equal(t, tt.txnType, txn.Type)
				assert.True(t, tt.amount.Equal(txn.Amount))
				assert.False(t, txn.TimeOfEntry.IsZero())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTransactionService_List_Scoping(t *testing.T) {
	annTxns := []model.Transaction{
		{ID: 1, UserID: 1, Type: model.TransactionTypeIncome, Description: "Salary"},
	}
	allTxns := []model.Transaction{
		{ID: 1, UserID: 1, Type: model.TransactionTypeIncome, Description: "Salary"},
		{ID: 2, UserID: 2, Type: model.TransactionTypeExpense, Description: "Rent"},
	}

	t.Run("regular user only sees own entries", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("ListByUser", mock.Anything, uint(1)).Return(annTxns, nil)

		svc := NewTransactionService(mockRepo, newFakeCache())
		txns, err := svc.List(context.Background(), 1, model.RoleUser)

		assert.NoError(t, err)
		assert.Len(t, txns, 1)
		for _, txn := range txns {
			assert.Equal(t, uint(1), txn.UserID)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin sees every entry", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("ListAll", mock.Anything).Return(allTxns, nil)

		svc := NewTransactionService(mockRepo, newFakeCache())
		txns, err := svc.List(context.Background(), 99, model.RoleAdmin)

		assert.NoError(t, err)
		assert.Len(t, txns, 2)
		mockRepo.AssertExpectations(t)
	})
}

func TestTransactionService_Totals(t *testing.T) {
	t.Run("sums by type with user scope", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		userID := uint(1)
		mockRepo.On("TotalsByType", mock.Anything, &userID).Return([]repository.TypeTotal{
			{Type: model.TransactionTypeIncome, Total: decimal.NewFromInt(1000)},
		}, nil)

		svc := NewTransactionService(mockRepo, newFakeCache())
		totals, err := svc.Totals(context.Background(), userID, model.RoleUser)

		assert.NoError(t, err)
		assert.True(t, totals[model.TransactionTypeIncome].Equal(decimal.NewFromInt(1000)))
		// A type without entries is present and zero, never absent.
		assert.True(t, totals[model.TransactionTypeExpense].Equal(decimal.Zero))
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty ledger yields zero for both types", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		userID := uint(7)
		mockRepo.On("TotalsByType", mock.Anything, &userID).Return([]repository.TypeTotal{}, nil)

		svc := NewTransactionService(mockRepo, newFakeCache())
		totals, err := svc.Totals(context.Background(), userID, model.RoleUser)

		assert.NoError(t, err)
		assert.Len(t, totals, 2)
		assert.True(t, totals[model.TransactionTypeIncome].Equal(decimal.Zero))
		assert.True(t, totals[model.TransactionTypeExpense].Equal(decimal.Zero))
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin aggregates without a user scope", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("TotalsByType", mock.Anything, (*uint)(nil)).Return([]repository.TypeTotal{
			{Type: model.TransactionTypeIncome, Total: decimal.NewFromInt(1500)},
			{Type: model.TransactionTypeExpense, Total: decimal.RequireFromString("249.99")},
		}, nil)

		svc := NewTransactionService(mockRepo, newFakeCache())
		totals, err := svc.Totals(context.Background(), 99, model.RoleAdmin)

		assert.NoError(t, err)
		assert.True(t, totals[model.TransactionTypeIncome].Equal(decimal.NewFromInt(1500)))
		assert.True(t, totals[model.TransactionTypeExpense].Equal(decimal.RequireFromString("249.99")))
		mockRepo.AssertExpectations(t)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	t.Run("deletes an existing entry and drops stale totals", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Transaction{ID: 5, UserID: 1}, nil)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(int64(1), nil)

		fc := newFakeCache()
		svc := NewTransactionService(mockRepo, fc)
		assert.NoError(t, svc.Delete(context.Background(), 5))
		assert.Contains(t, fc.deleted, cache.TotalsKey(1))
		assert.Contains(t, fc.deleted, cache.TotalsAllKey)
		mockRepo.AssertExpectations(t)
	})

	t.Run("second delete of the same id reports not found", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTransactionService(mockRepo, newFakeCache())
		err := svc.Delete(context.Background(), 5)
		assert.Equal(t, apperrors.ErrTransactionNotFound, err)
		mockRepo.AssertExpectations(t)
	})
}
