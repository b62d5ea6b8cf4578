package sales_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/sales"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

// memStore BD en memoria; el runner la clona antes de cada tx y la restaura si fn falla.
type memStore struct {
	transfers  map[string]entity.Transfer
	sales      map[string]entity.Sale
	products   map[string]entity.Product
	candidates map[string][]inventory.LotCandidate
	movements  []entity.InventoryMovement
	inventory  map[string]entity.Inventory

	// raceOn simula que otra confirmación vinculó esta transferencia entre el bloqueo y el UPDATE.
	raceOn string
}

func newMemStore() *memStore {
	return &memStore{
		transfers:  map[string]entity.Transfer{},
		sales:      map[string]entity.Sale{},
		products:   map[string]entity.Product{},
		candidates: map[string][]inventory.LotCandidate{},
		inventory:  map[string]entity.Inventory{},
	}
}

func (s *memStore) clone() *memStore {
	c := *s
	c.transfers = make(map[string]entity.Transfer, len(s.transfers))
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	c.sales = make(map[string]entity.Sale, len(s.sales))
	for k, v := range s.sales {
		c.sales[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	c.inventory = make(map[string]entity.Inventory, len(s.inventory))
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	return &c
}

func (s *memStore) restore(from *memStore) { *s = *from }

func (s *memStore) readers() sales.Readers {
	return sales.Readers{
		Transfers: transferRepo{s},
		Products:  productRepo{s},
		Lots:      lotRepo{s},
		Movements: movementRepo{s},
		Inventory: inventoryRepo{s},
		Sales:     saleRepo{s},
	}
}

func (s *memStore) movementsOf(kind string) []entity.InventoryMovement {
	var out []entity.InventoryMovement
	for _, m := range s.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type fakeTxRunner struct {
	store   *memStore
	commits int
}

func (f *fakeTxRunner) RunSales(_ context.Context, fn func(repos sales.SalesRepos) error) error {
	backup := f.store.clone()
	repos := sales.SalesRepos{
		Transfers: transferRepo{f.store},
		Sales:     saleRepo{f.store},
		Movements: movementRepo{f.store},
		Inventory: inventoryRepo{f.store},
	}
	if err := fn(repos); err != nil {
		f.store.restore(backup)
		return err
	}
	f.commits++
	return nil
}

// fixedSource devuelve siempre el mismo valor; 0.5 = sin variación.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type fakeGenerator struct {
	calls int
}

func (g *fakeGenerator) GenerateSaleReport(_ context.Context, sale *entity.Sale) ([]byte, error) {
	g.calls++
	return []byte("%PDF-" + sale.ID), nil
}

type transferRepo struct{ s *memStore }

func (r transferRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, id := range ids {
		if t, ok := r.s.transfers[id]; ok {
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r transferRepo) GetForUpdate(_ context.Context, id string) (*entity.Transfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r transferRepo) LinkToSale(_ context.Context, transferID, saleID string) error {
	t := r.s.transfers[transferID]
	if t.IsLinked() || transferID == r.s.raceOn {
		return domain.ErrTransferLinked
	}
	id := saleID
	t.SaleID = &id
	r.s.transfers[transferID] = t
	return nil
}

func (r transferRepo) UnlinkSale(_ context.Context, saleID string) error {
	for id, t := range r.s.transfers {
		if t.SaleID != nil && *t.SaleID == saleID {
			t.SaleID = nil
			r.s.transfers[id] = t
		}
	}
	return nil
}

type saleRepo struct{ s *memStore }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	c := *sale
	c.Lines = make([]*entity.SaleLine, len(sale.Lines))
	for i, l := range sale.Lines {
		l := *l
		c.Lines[i] = &l
	}
	r.s.sales[sale.ID] = c
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r saleRepo) Delete(_ context.Context, id string) error {
	delete(r.s.sales, id)
	return nil
}

type productRepo struct{ s *memStore }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// lotRepo solo responde candidatos FIFO; el resto del puerto no se usa en ventas.
type lotRepo struct{ s *memStore }

func (r lotRepo) Create(context.Context, *entity.Lot) error { return fmt.Errorf("no usado") }
func (r lotRepo) GetByID(context.Context, string) (*entity.Lot, error) {
	return nil, fmt.Errorf("no usado")
}
func (r lotRepo) Update(context.Context, *entity.Lot) error           { return fmt.Errorf("no usado") }
func (r lotRepo) UpdateCalculated(context.Context, *entity.Lot) error { return fmt.Errorf("no usado") }
func (r lotRepo) ListByContainer(context.Context, string) ([]*entity.Lot, error) {
	return nil, fmt.Errorf("no usado")
}

func (r lotRepo) ListCandidatesByProduct(_ context.Context, productID string) ([]inventory.LotCandidate, error) {
	return append([]inventory.LotCandidate(nil), r.s.candidates[productID]...), nil
}

type movementRepo struct{ s *memStore }

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) ListByProductUntil(_ context.Context, productID string, until time.Time) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID && !m.Date.After(until) {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

type inventoryRepo struct{ s *memStore }

func (r inventoryRepo) Get(_ context.Context, productID string) (*entity.Inventory, error) {
	inv, ok := r.s.inventory[productID]
	if !ok {
		return &entity.Inventory{ProductID: productID, Quantity: decimal.Zero}, nil
	}
	return &inv, nil
}

func (r inventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	return r.Get(ctx, productID)
}

func (r inventoryRepo) Upsert(_ context.Context, inv *entity.Inventory) error {
	r.s.inventory[inv.ProductID] = *inv
	return nil
}

func (r inventoryRepo) ListPositive(_ context.Context) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	for _, inv := range r.s.inventory {
		if inv.Quantity.IsPositive() {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
