package model

import "time"

const (
	DefaultExpenseCurrency = "RUB"
	DefaultExpenseCategory = "other"
)

type Expense struct {
	ID          string
	UserID      string
	Amount      float64
	Currency    string
	Category    string
	Description string
	SpentOn     time.Time
	CreatedAt   time.Time
}
