package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// Tipos de gasto de un contenedor.
const (
	ExpenseTypeFreight   = "FLETE"
	ExpenseTypeCustoms   = "ADUANA"
	ExpenseTypeTransport = "TRANSPORTE"
	ExpenseTypeStorage   = "ALMACEN"
	ExpenseTypeOther     = "OTRO"
)

// Expense es un gasto del contenedor en una moneda dada.
type Expense struct {
	ID           string
	ContainerID  string
	CurrencyCode string
	Amount       decimal.Decimal
	Type         string
	Description  string
	CreatedAt    time.Time
}

// NewExpense construye un gasto validado.
func NewExpense(id, containerID, currency string, amount decimal.Decimal, expenseType, description string, now time.Time) (*Expense, error) {
	if id == "" || containerID == "" {
		return nil, domain.Invalid("gasto sin id o contenedor")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, domain.Invalid("moneda del gasto vacía")
	}
	if amount.IsNegative() {
		return nil, domain.Invalid("monto del gasto negativo: %s", amount)
	}
	switch expenseType {
	case ExpenseTypeFreight, ExpenseTypeCustoms, ExpenseTypeTransport, ExpenseTypeStorage, ExpenseTypeOther:
	case "":
		expenseType = ExpenseTypeOther
	default:
		return nil, domain.Invalid("tipo de gasto desconocido: %s", expenseType)
	}
	return &Expense{
		ID:           id,
		ContainerID:  containerID,
		CurrencyCode: currency,
		Amount:       amount,
		Type:         expenseType,
		Description:  description,
		CreatedAt:    now,
	}, nil
}

// Currency es una moneda del catálogo con su tasa por defecto hacia la moneda local.
type Currency struct {
	Code        string
	Name        string
	DefaultRate decimal.Decimal
}

// ExchangeRate es una tasa registrada para un contenedor; reemplaza la tasa por defecto de la moneda.
type ExchangeRate struct {
	ContainerID  string
	CurrencyCode string
	Rate         decimal.Decimal
	UpdatedAt    time.Time
}

// NewExchangeRate construye una tasa de contenedor validada.
func NewExchangeRate(containerID, currency string, rate decimal.Decimal, now time.Time) (*ExchangeRate, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if containerID == "" || currency == "" {
		return nil, domain.Invalid("tasa sin contenedor o moneda")
	}
	if !rate.IsPositive() {
		return nil, domain.Invalid("tasa debe ser positiva: %s", rate)
	}
	return &ExchangeRate{ContainerID: containerID, CurrencyCode: currency, Rate: rate, UpdatedAt: now}, nil
}
