package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías y estados de gastos.
const (
	ExpenseCategoryFixed    = "FIXED"
	ExpenseCategoryVariable = "VARIABLE"

	ExpenseStatusPending  = "PENDING"
	ExpenseStatusApproved = "APPROVED"
	ExpenseStatusRejected = "REJECTED"
)

// Expense gasto declarado por un empleado, pendiente de validación.
type Expense struct {
	ID          string
	Date        time.Time
	Category    string
	Type        string
	Description string
	Amount      decimal.Decimal
	Status      string
	PerformedBy string
	ReviewedBy  string
	ReviewedAt  *time.Time
}
