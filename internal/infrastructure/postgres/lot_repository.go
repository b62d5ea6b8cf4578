package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `l.id, l.container_id, l.product_id, l.quantity, l.unit_cost_usd, l.total_cost_usd,
	l.shrinkage_pct, l.margin_pct, l.fiscal_median_price, l.cash_median_price,
	l.expense_share, l.calc_unit_cost_usd, l.gross_unit_cost_usd, l.sellable_qty, l.shrinkage_qty,
	l.sale_price_usd, l.sale_price_local, l.total_revenue, l.total_taxes, l.true_gross_profit, l.calculated_at,
	l.created_at, l.updated_at`

// lotDest punteros de Scan en el orden de lotColumns.
func lotDest(l *entity.Lot, calculatedAt **time.Time) []any {
	c := &l.Calculated
	return []any{
		&l.ID, &l.ContainerID, &l.ProductID, &l.Quantity, &l.UnitCostUSD, &l.TotalCostUSD,
		&l.ShrinkagePct, &l.MarginPct, &l.FiscalMedianPrice, &l.CashMedianPrice,
		&c.ExpenseShare, &c.UnitCostUSD, &c.GrossUnitCostUSD, &c.SellableQty, &c.ShrinkageQty,
		&c.SalePriceUSD, &c.SalePriceLocal, &c.TotalRevenue, &c.TotalTaxes, &c.TrueGrossProfit, calculatedAt,
		&l.CreatedAt, &l.UpdatedAt,
	}
}

// Create persiste un lote sin campos calculados.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lots (id, container_id, product_id, quantity, unit_cost_usd, total_cost_usd,
			shrinkage_pct, margin_pct, fiscal_median_price, cash_median_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ContainerID, l.ProductID, l.Quantity, l.UnitCostUSD, l.TotalCostUSD,
		l.ShrinkagePct, l.MarginPct, l.FiscalMedianPrice, l.CashMedianPrice, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	var l entity.Lot
	var calculatedAt *time.Time
	err := r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots l WHERE l.id = $1`, id).Scan(lotDest(&l, &calculatedAt)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if calculatedAt != nil {
		l.Calculated.CalculatedAt = *calculatedAt
	}
	return &l, nil
}

// Update guarda los datos de entrada del lote.
func (r *LotRepo) Update(ctx context.Context, l *entity.Lot) error {
	query := `
		UPDATE lots SET quantity = $2, unit_cost_usd = $3, total_cost_usd = $4,
			shrinkage_pct = $5, margin_pct = $6, fiscal_median_price = $7, cash_median_price = $8,
			updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.Quantity, l.UnitCostUSD, l.TotalCostUSD,
		l.ShrinkagePct, l.MarginPct, l.FiscalMedianPrice, l.CashMedianPrice, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCalculated guarda el resultado del recálculo y la merma/margen aplicados.
func (r *LotRepo) UpdateCalculated(ctx context.Context, l *entity.Lot) error {
	c := l.Calculated
	query := `
		UPDATE lots SET shrinkage_pct = $2, margin_pct = $3,
			expense_share = $4, calc_unit_cost_usd = $5, gross_unit_cost_usd = $6,
			sellable_qty = $7, shrinkage_qty = $8, sale_price_usd = $9, sale_price_local = $10,
			total_revenue = $11, total_taxes = $12, true_gross_profit = $13,
			calculated_at = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.ShrinkagePct, l.MarginPct,
		c.ExpenseShare, c.UnitCostUSD, c.GrossUnitCostUSD,
		c.SellableQty, c.ShrinkageQty, c.SalePriceUSD, c.SalePriceLocal,
		c.TotalRevenue, c.TotalTaxes, c.TrueGrossProfit,
		c.CalculatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByContainer lista los lotes de un contenedor en orden de creación.
func (r *LotRepo) ListByContainer(ctx context.Context, containerID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots l WHERE l.container_id = $1 ORDER BY l.created_at, l.id`
	rows, err := r.q.Query(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		var calculatedAt *time.Time
		if err := rows.Scan(lotDest(&l, &calculatedAt)...); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if calculatedAt != nil {
			l.Calculated.CalculatedAt = *calculatedAt
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListCandidatesByProduct lotes del producto con fecha de importación, tasa y reparto por canal del contenedor.
func (r *LotRepo) ListCandidatesByProduct(ctx context.Context, productID string) ([]inventory.LotCandidate, error) {
	query := `
		SELECT ` + lotColumns + `,
			c.import_date, c.exchange_rate, c.hard_currency_pct, c.fiscal_pct, c.cash_pct
		FROM lots l
		JOIN containers c ON c.id = l.container_id
		WHERE l.product_id = $1
		ORDER BY c.import_date, l.id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list lot candidates: %w", err)
	}
	defer rows.Close()
	var list []inventory.LotCandidate
	for rows.Next() {
		var l entity.Lot
		var calculatedAt *time.Time
		var cand inventory.LotCandidate
		dest := append(lotDest(&l, &calculatedAt),
			&cand.ImportDate, &cand.ExchangeRate,
			&cand.Split.HardCurrencyPct, &cand.Split.FiscalPct, &cand.Split.CashPct,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan lot candidate: %w", err)
		}
		if calculatedAt != nil {
			l.Calculated.CalculatedAt = *calculatedAt
		}
		cand.Lot = &l
		list = append(list, cand)
	}
	return list, rows.Err()
}
