package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/costeo-importaciones/internal/application/costing"
	"github.com/jhoicas/costeo-importaciones/internal/application/sales"
)

var (
	_ costing.CostingTxRunner = (*TxRunner)(nil)
	_ sales.SalesTxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia la transacción, ejecuta fn y hace Commit; cualquier error deja Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCosting repos de costeo atados a la tx (mutaciones de contenedor + recálculo).
func (r *TxRunner) RunCosting(ctx context.Context, fn func(repos costing.CostingRepos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(costing.CostingRepos{
			Containers: NewContainerRepository(tx),
			Lots:       NewLotRepository(tx),
			Expenses:   NewExpenseRepository(tx),
			Rates:      NewExchangeRateRepository(tx),
			Currencies: NewCurrencyRepository(tx),
			Products:   NewProductRepository(tx),
			Movements:  NewInventoryMovementRepository(tx),
			Inventory:  NewInventoryRepository(tx),
		})
	})
}

// RunSales repos de venta atados a la tx (confirmación y anulación).
func (r *TxRunner) RunSales(ctx context.Context, fn func(repos sales.SalesRepos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(sales.SalesRepos{
			Transfers: NewTransferRepository(tx),
			Sales:     NewSaleRepository(tx),
			Movements: NewInventoryMovementRepository(tx),
			Inventory: NewInventoryRepository(tx),
		})
	})
}
