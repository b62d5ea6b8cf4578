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

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

// ContainerRepo implementación de ContainerRepository sobre PostgreSQL (usable con pool o tx).
type ContainerRepo struct {
	q Querier
}

// NewContainerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContainerRepository(q Querier) *ContainerRepo {
	return &ContainerRepo{q: q}
}

const containerColumns = `id, code, import_date, exchange_rate,
	hard_currency_pct, fiscal_pct, cash_pct, margin_pct, shrinkage_pct, commercial_margin_pct, other_expenses_pct,
	created_at, updated_at`

// Create persiste un contenedor.
func (r *ContainerRepo) Create(ctx context.Context, c *entity.Container) error {
	query := `INSERT INTO containers (` + containerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	p := c.Percentages
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Code, c.ImportDate, c.ExchangeRate,
		p.HardCurrencyPct, p.FiscalPct, p.CashPct, p.MarginPct, p.ShrinkagePct, p.CommercialMarginPct, p.OtherExpensesPct,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un contenedor con código %s", domain.ErrConflict, c.Code)
		}
		return fmt.Errorf("insert container: %w", err)
	}
	return nil
}

// GetByID obtiene un contenedor por ID.
func (r *ContainerRepo) GetByID(ctx context.Context, id string) (*entity.Container, error) {
	return r.get(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, id)
}

// GetForUpdate obtiene el contenedor y bloquea la fila hasta el fin de la transacción.
func (r *ContainerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Container, error) {
	return r.get(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContainerRepo) get(ctx context.Context, query, id string) (*entity.Container, error) {
	var c entity.Container
	p := &c.Percentages
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Code, &c.ImportDate, &c.ExchangeRate,
		&p.HardCurrencyPct, &p.FiscalPct, &p.CashPct, &p.MarginPct, &p.ShrinkagePct, &p.CommercialMarginPct, &p.OtherExpensesPct,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get container: %w", err)
	}
	return &c, nil
}

// Update guarda tasa y porcentajes del contenedor.
func (r *ContainerRepo) Update(ctx context.Context, c *entity.Container) error {
	query := `
		UPDATE containers SET exchange_rate = $2,
			hard_currency_pct = $3, fiscal_pct = $4, cash_pct = $5, margin_pct = $6,
			shrinkage_pct = $7, commercial_margin_pct = $8, other_expenses_pct = $9,
			updated_at = $10
		WHERE id = $1`
	p := c.Percentages
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.ExchangeRate,
		p.HardCurrencyPct, p.FiscalPct, p.CashPct, p.MarginPct,
		p.ShrinkagePct, p.CommercialMarginPct, p.OtherExpensesPct,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update container: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
