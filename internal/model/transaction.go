package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// Valid reports whether the type is one of the known kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single immutable income or expense ledger entry.
// There is no update path: a row is created once and only ever deleted.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Type        TransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	Description string          `json:"description" gorm:"size:255;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	TimeOfEntry time.Time       `json:"time_of_entry" gorm:"not null;index"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
