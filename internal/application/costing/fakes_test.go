package costing_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/costing"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

// memStore BD en memoria; el runner la clona antes de cada tx y la restaura si fn falla.
type memStore struct {
	containers map[string]entity.Container
	lots       map[string]entity.Lot
	lotOrder   []string
	expenses   map[string]entity.Expense
	rates      map[string]entity.ExchangeRate // containerID|currency
	currencies []entity.Currency
	products   map[string]entity.Product
	movements  []entity.InventoryMovement
	inventory  map[string]entity.Inventory

	failCalculatedFor string // UpdateCalculated falla para este lote
}

func newMemStore() *memStore {
	return &memStore{
		containers: map[string]entity.Container{},
		lots:       map[string]entity.Lot{},
		expenses:   map[string]entity.Expense{},
		rates:      map[string]entity.ExchangeRate{},
		currencies: []entity.Currency{
			{Code: "USD", Name: "Dólar", DefaultRate: decimal.NewFromInt(320)},
			{Code: "EUR", Name: "Euro", DefaultRate: decimal.NewFromInt(350)},
		},
		products:  map[string]entity.Product{},
		inventory: map[string]entity.Inventory{},
	}
}

func (s *memStore) clone() *memStore {
	c := *s
	c.containers = make(map[string]entity.Container, len(s.containers))
	for k, v := range s.containers {
		c.containers[k] = v
	}
	c.lots = make(map[string]entity.Lot, len(s.lots))
	for k, v := range s.lots {
		c.lots[k] = v
	}
	c.lotOrder = append([]string(nil), s.lotOrder...)
	c.expenses = make(map[string]entity.Expense, len(s.expenses))
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	c.rates = make(map[string]entity.ExchangeRate, len(s.rates))
	for k, v := range s.rates {
		c.rates[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	c.inventory = make(map[string]entity.Inventory, len(s.inventory))
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	return &c
}

func (s *memStore) restore(from *memStore) { *s = *from }

func (s *memStore) repos() costing.CostingRepos {
	return costing.CostingRepos{
		Containers: containerRepo{s},
		Lots:       lotRepo{s},
		Expenses:   expenseRepo{s},
		Rates:      rateRepo{s},
		Currencies: currencyRepo{s},
		Products:   productRepo{s},
		Movements:  movementRepo{s},
		Inventory:  inventoryRepo{s},
	}
}

func (s *memStore) reader() costing.ContainerReader {
	r := s.repos()
	return costing.ContainerReader{Containers: r.Containers, Lots: r.Lots, Expenses: r.Expenses, Rates: r.Rates}
}

type fakeTxRunner struct {
	store   *memStore
	commits int
}

func (f *fakeTxRunner) RunCosting(ctx context.Context, fn func(repos costing.CostingRepos) error) error {
	backup := f.store.clone()
	if err := fn(f.store.repos()); err != nil {
		f.store.restore(backup)
		return err
	}
	f.commits++
	return nil
}

type containerRepo struct{ s *memStore }

func (r containerRepo) Create(_ context.Context, c *entity.Container) error {
	r.s.containers[c.ID] = *c
	return nil
}

func (r containerRepo) GetByID(_ context.Context, id string) (*entity.Container, error) {
	c, ok := r.s.containers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r containerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Container, error) {
	return r.GetByID(ctx, id)
}

func (r containerRepo) Update(_ context.Context, c *entity.Container) error {
	r.s.containers[c.ID] = *c
	return nil
}

type lotRepo struct{ s *memStore }

func (r lotRepo) Create(_ context.Context, l *entity.Lot) error {
	r.s.lots[l.ID] = *l
	r.s.lotOrder = append(r.s.lotOrder, l.ID)
	return nil
}

func (r lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r lotRepo) Update(_ context.Context, l *entity.Lot) error {
	stored := r.s.lots[l.ID]
	l.Calculated = stored.Calculated
	r.s.lots[l.ID] = *l
	return nil
}

func (r lotRepo) UpdateCalculated(_ context.Context, l *entity.Lot) error {
	if l.ID == r.s.failCalculatedFor {
		return errors.New("fallo de escritura simulado")
	}
	stored := r.s.lots[l.ID]
	stored.Calculated = l.Calculated
	stored.ShrinkagePct = l.ShrinkagePct
	stored.MarginPct = l.MarginPct
	r.s.lots[l.ID] = stored
	return nil
}

func (r lotRepo) ListByContainer(_ context.Context, containerID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, id := range r.s.lotOrder {
		l := r.s.lots[id]
		if l.ContainerID == containerID {
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r lotRepo) ListCandidatesByProduct(_ context.Context, productID string) ([]inventory.LotCandidate, error) {
	return nil, fmt.Errorf("no usado")
}

type expenseRepo struct{ s *memStore }

func (r expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.s.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r expenseRepo) Delete(_ context.Context, id string) error {
	delete(r.s.expenses, id)
	return nil
}

func (r expenseRepo) ListByContainer(_ context.Context, containerID string) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range r.s.expenses {
		if e.ContainerID == containerID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type rateRepo struct{ s *memStore }

func (r rateRepo) Upsert(_ context.Context, rate *entity.ExchangeRate) error {
	r.s.rates[rate.ContainerID+"|"+rate.CurrencyCode] = *rate
	return nil
}

func (r rateRepo) ListByContainer(_ context.Context, containerID string) ([]*entity.ExchangeRate, error) {
	var out []*entity.ExchangeRate
	for _, rate := range r.s.rates {
		if rate.ContainerID == containerID {
			rate := rate
			out = append(out, &rate)
		}
	}
	return out, nil
}

type currencyRepo struct{ s *memStore }

func (r currencyRepo) List(_ context.Context) ([]*entity.Currency, error) {
	out := make([]*entity.Currency, 0, len(r.s.currencies))
	for _, c := range r.s.currencies {
		c := c
		out = append(out, &c)
	}
	return out, nil
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
	return out, nil
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
	return out, nil
}
