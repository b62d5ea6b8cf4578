package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository      = (*ExpenseRepo)(nil)
	_ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)
	_ repository.CurrencyRepository     = (*CurrencyRepo)(nil)
)

// ExpenseRepo gastos de contenedor.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, container_id, currency_code, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ContainerID, e.CurrencyCode, e.Amount, e.Type, e.Description, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	query := `
		SELECT id, container_id, currency_code, amount, type, description, created_at
		FROM expenses WHERE id = $1`
	var e entity.Expense
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ContainerID, &e.CurrencyCode, &e.Amount, &e.Type, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Delete elimina un gasto.
func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByContainer lista los gastos del contenedor.
func (r *ExpenseRepo) ListByContainer(ctx context.Context, containerID string) ([]*entity.Expense, error) {
	query := `
		SELECT id, container_id, currency_code, amount, type, description, created_at
		FROM expenses WHERE container_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.ContainerID, &e.CurrencyCode, &e.Amount, &e.Type, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ExchangeRateRepo tasas por contenedor y moneda.
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

// Upsert crea o reemplaza la tasa (contenedor, moneda).
func (r *ExchangeRateRepo) Upsert(ctx context.Context, rate *entity.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (container_id, currency_code, rate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (container_id, currency_code) DO UPDATE
		SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, rate.ContainerID, rate.CurrencyCode, rate.Rate, rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert exchange rate: %w", err)
	}
	return nil
}

// ListByContainer lista las tasas del contenedor.
func (r *ExchangeRateRepo) ListByContainer(ctx context.Context, containerID string) ([]*entity.ExchangeRate, error) {
	query := `
		SELECT container_id, currency_code, rate, updated_at
		FROM exchange_rates WHERE container_id = $1 ORDER BY currency_code`
	rows, err := r.q.Query(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeRate
	for rows.Next() {
		var x entity.ExchangeRate
		if err := rows.Scan(&x.ContainerID, &x.CurrencyCode, &x.Rate, &x.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		list = append(list, &x)
	}
	return list, rows.Err()
}

// CurrencyRepo catálogo de monedas.
type CurrencyRepo struct {
	q Querier
}

// NewCurrencyRepository construye el adaptador.
func NewCurrencyRepository(q Querier) *CurrencyRepo {
	return &CurrencyRepo{q: q}
}

// List devuelve todas las monedas.
func (r *CurrencyRepo) List(ctx context.Context) ([]*entity.Currency, error) {
	rows, err := r.q.Query(ctx, `SELECT code, name, default_rate FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Currency
	for rows.Next() {
		var c entity.Currency
		if err := rows.Scan(&c.Code, &c.Name, &c.DefaultRate); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
