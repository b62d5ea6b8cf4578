package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT id, code, name, pack_size, created_at, updated_at FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Code, &p.Name, &p.PackSize, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List devuelve el catálogo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, name, pack_size, created_at, updated_at FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.PackSize, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// InventoryRepo saldo cacheado por producto.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get devuelve el saldo; cero si el producto no tiene fila.
func (r *InventoryRepo) Get(ctx context.Context, productID string) (*entity.Inventory, error) {
	return r.get(ctx, `SELECT product_id, quantity, updated_at FROM inventory WHERE product_id = $1`, productID)
}

// GetForUpdate como Get pero bloquea la fila hasta el fin de la transacción.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	return r.get(ctx, `SELECT product_id, quantity, updated_at FROM inventory WHERE product_id = $1 FOR UPDATE`, productID)
}

func (r *InventoryRepo) get(ctx context.Context, query, productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Inventory{ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// Upsert crea o reemplaza el saldo del producto.
func (r *InventoryRepo) Upsert(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (product_id, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, inv.ProductID, inv.Quantity, inv.UpdatedAt); err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// ListPositive saldos con cantidad > 0, por producto.
func (r *InventoryRepo) ListPositive(ctx context.Context) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, `SELECT product_id, quantity, updated_at FROM inventory WHERE quantity > 0 ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ProductID, &inv.Quantity, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
