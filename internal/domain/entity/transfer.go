package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// Transfer es un comprobante de transferencia bancaria (canal fiscal).
// SaleID es nil mientras no respalde ninguna venta; una transferencia respalda a lo sumo una.
type Transfer struct {
	ID        string
	Date      time.Time
	Amount    decimal.Decimal
	Reference string
	SaleID    *string
	CreatedAt time.Time
}

// NewTransfer construye una transferencia validada.
func NewTransfer(id string, date time.Time, amount decimal.Decimal, reference string, now time.Time) (*Transfer, error) {
	if id == "" {
		return nil, domain.Invalid("transferencia sin id")
	}
	if date.IsZero() {
		return nil, domain.Invalid("fecha de transferencia vacía")
	}
	if !amount.IsPositive() {
		return nil, domain.Invalid("monto de transferencia debe ser positivo: %s", amount)
	}
	return &Transfer{ID: id, Date: date, Amount: amount, Reference: reference, CreatedAt: now}, nil
}

// IsLinked indica si la transferencia ya fue consumida por una venta.
func (t *Transfer) IsLinked() bool {
	return t.SaleID != nil && *t.SaleID != ""
}
