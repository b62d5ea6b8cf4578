package costing

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

// CostingRepos repositorios atados a una misma transacción.
type CostingRepos struct {
	Containers repository.ContainerRepository
	Lots       repository.LotRepository
	Expenses   repository.ExpenseRepository
	Rates      repository.ExchangeRateRepository
	Currencies repository.CurrencyRepository
	Products   repository.ProductRepository
	Movements  repository.InventoryMovementRepository
	Inventory  repository.InventoryRepository
}

// CostingTxRunner ejecuta fn dentro de una transacción de BD: Commit si fn no falla, Rollback si falla.
// Toda mutación de un contenedor y su recálculo comparten la misma transacción.
type CostingTxRunner interface {
	RunCosting(ctx context.Context, fn func(repos CostingRepos) error) error
}

// ContainerReader lecturas fuera de transacción (pool).
type ContainerReader struct {
	Containers repository.ContainerRepository
	Lots       repository.LotRepository
	Expenses   repository.ExpenseRepository
	Rates      repository.ExchangeRateRepository
}
