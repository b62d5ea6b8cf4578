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
	_ repository.TransferRepository = (*TransferRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
)

// TransferRepo comprobantes de transferencia.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// GetByIDs devuelve las transferencias existentes entre ids; las que no existen se omiten.
func (r *TransferRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Transfer, error) {
	query := `
		SELECT id, date, amount, reference, sale_id, created_at
		FROM transfers WHERE id = ANY($1) ORDER BY date, id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.Reference, &t.SaleID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// GetForUpdate obtiene la transferencia bloqueando su fila.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `
		SELECT id, date, amount, reference, sale_id, created_at
		FROM transfers WHERE id = $1 FOR UPDATE`
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Date, &t.Amount, &t.Reference, &t.SaleID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// LinkToSale asigna la venta solo si la transferencia sigue libre.
func (r *TransferRepo) LinkToSale(ctx context.Context, transferID, saleID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE transfers SET sale_id = $2 WHERE id = $1 AND sale_id IS NULL`, transferID, saleID)
	if err != nil {
		return fmt.Errorf("link transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w (%s)", domain.ErrTransferLinked, transferID)
	}
	return nil
}

// UnlinkSale libera las transferencias de la venta.
func (r *TransferRepo) UnlinkSale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE transfers SET sale_id = NULL WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("unlink transfers: %w", err)
	}
	return nil
}

// SaleRepo ventas confirmadas y sus líneas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas. Debe ejecutarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, period_start, period_end, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.PeriodStart, s.PeriodEnd, s.Total, s.CreatedAt, nullString(s.CreatedBy)); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	lineQuery := `
		INSERT INTO sale_lines (id, sale_id, date, product_id, product_name, lot_id, channel, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, l := range s.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, s.ID, l.Date, l.ProductID, l.ProductName, l.LotID, l.Channel, l.Quantity, l.UnitPrice, l.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas y transferencias vinculadas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	var createdBy *string
	err := r.q.QueryRow(ctx,
		`SELECT id, period_start, period_end, total, created_at, created_by FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.PeriodStart, &s.PeriodEnd, &s.Total, &s.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, date, product_id, product_name, lot_id, channel, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY date, product_name, channel`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.Date, &l.ProductID, &l.ProductName, &l.LotID,
			&l.Channel, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, &l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}

	ids, err := r.q.Query(ctx, `SELECT id FROM transfers WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale transfers: %w", err)
	}
	s.TransferIDs, err = pgx.CollectRows(ids, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan sale transfers: %w", err)
	}
	return &s, nil
}

// Delete elimina la venta; las líneas caen en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
