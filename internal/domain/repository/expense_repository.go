package repository

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos de contenedor.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	Delete(ctx context.Context, id string) error
	ListByContainer(ctx context.Context, containerID string) ([]*entity.Expense, error)
}

// ExchangeRateRepository tasas por contenedor y moneda.
type ExchangeRateRepository interface {
	Upsert(ctx context.Context, rate *entity.ExchangeRate) error
	ListByContainer(ctx context.Context, containerID string) ([]*entity.ExchangeRate, error)
}

// CurrencyRepository catálogo de monedas con su tasa por defecto.
type CurrencyRepository interface {
	List(ctx context.Context) ([]*entity.Currency, error)
}
