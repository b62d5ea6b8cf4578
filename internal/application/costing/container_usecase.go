package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// ContainerUseCase mutaciones de contenedores. Cada mutación y el recálculo del contenedor
// corren en la misma transacción: o se guardan ambos o ninguno.
type ContainerUseCase struct {
	txRunner      CostingTxRunner
	reader        ContainerReader
	localCurrency string
	log           *logger.Logger
}

// NewContainerUseCase construye el caso de uso.
func NewContainerUseCase(txRunner CostingTxRunner, reader ContainerReader, localCurrency string, log *logger.Logger) *ContainerUseCase {
	return &ContainerUseCase{
		txRunner:      txRunner,
		reader:        reader,
		localCurrency: localCurrency,
		log:           log.Component("costing"),
	}
}

// CreateContainer crea el contenedor con sus lotes y gastos, registra la entrada al kardex
// de cada lote en la fecha de importación, suma el stock cacheado y recalcula.
func (uc *ContainerUseCase) CreateContainer(ctx context.Context, userID string, in dto.CreateContainerRequest) (*dto.ContainerResponse, error) {
	importDate, err := dto.ParseDate("import_date", in.ImportDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	container, err := entity.NewContainer(uuid.New().String(), in.Code, importDate, in.ExchangeRate, percentagesFromDTO(in.Percentages), now)
	if err != nil {
		return nil, err
	}
	lots := make([]*entity.Lot, 0, len(in.Lots))
	for _, li := range in.Lots {
		lot, err := entity.NewLot(uuid.New().String(), container.ID, li.ProductID, li.Quantity, li.UnitCostUSD, li.FiscalMedianPrice, li.CashMedianPrice, now)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	expenses := make([]*entity.Expense, 0, len(in.Expenses))
	for _, ei := range in.Expenses {
		exp, err := entity.NewExpense(uuid.New().String(), container.ID, ei.CurrencyCode, ei.Amount, ei.Type, ei.Description, now)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}

	var rec *Recalculation
	err = uc.txRunner.RunCosting(ctx, func(repos CostingRepos) error {
		if err := repos.Containers.Create(ctx, container); err != nil {
			return err
		}
		for _, lot := range lots {
			if err := uc.addLot(ctx, repos, container, lot, userID, now); err != nil {
				return err
			}
		}
		for _, exp := range expenses {
			if err := repos.Expenses.Create(ctx, exp); err != nil {
				return err
			}
		}
		var err error
		rec, err = recalculate(ctx, repos, container.ID, uc.localCurrency)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("code", in.Code).Msg("alta de contenedor rechazada")
		return nil, err
	}
	uc.log.Info().Str("container_id", container.ID).Str("code", container.Code).Int("lots", len(lots)).Msg("contenedor creado")

	calculated := make([]*entity.Lot, 0, len(rec.Lots))
	for _, lr := range rec.Lots {
		calculated = append(calculated, lr.Lot)
	}
	return toContainerResponse(container, calculated, expenses, nil), nil
}

// GetContainer devuelve el contenedor con lotes, gastos y tasas.
func (uc *ContainerUseCase) GetContainer(ctx context.Context, id string) (*dto.ContainerResponse, error) {
	container, err := uc.reader.Containers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("%w: contenedor %s", domain.ErrNotFound, id)
	}
	lots, err := uc.reader.Lots.ListByContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	expenses, err := uc.reader.Expenses.ListByContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	rates, err := uc.reader.Rates.ListByContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContainerResponse(container, lots, expenses, rates), nil
}

// AddLot agrega un lote al contenedor (con su entrada al kardex) y recalcula.
func (uc *ContainerUseCase) AddLot(ctx context.Context, userID, containerID string, in dto.LotInput) (*dto.ContainerResponse, error) {
	now := time.Now()
	lot, err := entity.NewLot(uuid.New().String(), containerID, in.ProductID, in.Quantity, in.UnitCostUSD, in.FiscalMedianPrice, in.CashMedianPrice, now)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, containerID, "add_lot", func(repos CostingRepos, c *entity.Container) error {
		return uc.addLot(ctx, repos, c, lot, userID, now)
	})
}

// UpdateLot modifica cantidad, costo o medianas de un lote. Un cambio de cantidad se refleja
// en el kardex como ajuste y en el stock cacheado.
func (uc *ContainerUseCase) UpdateLot(ctx context.Context, userID, containerID, lotID string, in dto.UpdateLotRequest) (*dto.ContainerResponse, error) {
	return uc.mutate(ctx, containerID, "update_lot", func(repos CostingRepos, c *entity.Container) error {
		lot, err := repos.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil || lot.ContainerID != c.ID {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
		}
		prevQty := lot.Quantity
		if in.Quantity != nil {
			if !in.Quantity.IsPositive() {
				return domain.Invalid("cantidad del lote debe ser positiva: %s", *in.Quantity)
			}
			lot.Quantity = *in.Quantity
		}
		if in.UnitCostUSD != nil {
			lot.UnitCostUSD = *in.UnitCostUSD
		}
		if in.FiscalMedianPrice != nil {
			lot.FiscalMedianPrice = *in.FiscalMedianPrice
		}
		if in.CashMedianPrice != nil {
			lot.CashMedianPrice = *in.CashMedianPrice
		}
		if lot.UnitCostUSD.IsNegative() || lot.FiscalMedianPrice.IsNegative() || lot.CashMedianPrice.IsNegative() {
			return domain.Invalid("costos y precios del lote no pueden ser negativos")
		}
		now := time.Now()
		lot.TotalCostUSD = lot.Quantity.Mul(lot.UnitCostUSD)
		lot.UpdatedAt = now
		if err := repos.Lots.Update(ctx, lot); err != nil {
			return err
		}

		delta := lot.Quantity.Sub(prevQty)
		if delta.IsZero() {
			return nil
		}
		kind := entity.MovementKindAdjustmentIn
		if delta.IsNegative() {
			kind = entity.MovementKindAdjustmentOut
		}
		ref := fmt.Sprintf("ajuste lote %s contenedor %s", lot.ID, c.Code)
		return registerMovement(ctx, repos, lot.ProductID, kind, delta.Abs(), now, ref, userID, now)
	})
}

// AddExpense agrega un gasto y recalcula.
func (uc *ContainerUseCase) AddExpense(ctx context.Context, containerID string, in dto.ExpenseInput) (*dto.ContainerResponse, error) {
	exp, err := entity.NewExpense(uuid.New().String(), containerID, in.CurrencyCode, in.Amount, in.Type, in.Description, time.Now())
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, containerID, "add_expense", func(repos CostingRepos, _ *entity.Container) error {
		return repos.Expenses.Create(ctx, exp)
	})
}

// RemoveExpense elimina un gasto del contenedor y recalcula.
func (uc *ContainerUseCase) RemoveExpense(ctx context.Context, containerID, expenseID string) (*dto.ContainerResponse, error) {
	return uc.mutate(ctx, containerID, "remove_expense", func(repos CostingRepos, c *entity.Container) error {
		exp, err := repos.Expenses.GetByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if exp == nil || exp.ContainerID != c.ID {
			return fmt.Errorf("%w: gasto %s", domain.ErrNotFound, expenseID)
		}
		return repos.Expenses.Delete(ctx, expenseID)
	})
}

// SetExchangeRate registra (o reemplaza) la tasa de una moneda para este contenedor y recalcula.
func (uc *ContainerUseCase) SetExchangeRate(ctx context.Context, containerID string, in dto.ExchangeRateRequest) (*dto.ContainerResponse, error) {
	rate, err := entity.NewExchangeRate(containerID, in.CurrencyCode, in.Rate, time.Now())
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, containerID, "set_rate", func(repos CostingRepos, _ *entity.Container) error {
		return repos.Rates.Upsert(ctx, rate)
	})
}

// UpdateContainerRate cambia la tasa USD usada para precios y recalcula.
func (uc *ContainerUseCase) UpdateContainerRate(ctx context.Context, containerID string, in dto.ContainerRateRequest) (*dto.ContainerResponse, error) {
	if !in.ExchangeRate.IsPositive() {
		return nil, domain.Invalid("tasa de cambio debe ser positiva: %s", in.ExchangeRate)
	}
	return uc.mutate(ctx, containerID, "update_rate", func(repos CostingRepos, c *entity.Container) error {
		c.ExchangeRate = in.ExchangeRate
		c.UpdatedAt = time.Now()
		return repos.Containers.Update(ctx, c)
	})
}

// UpdatePercentages reemplaza los porcentajes globales (validados) y recalcula.
func (uc *ContainerUseCase) UpdatePercentages(ctx context.Context, containerID string, in dto.PercentagesDTO) (*dto.ContainerResponse, error) {
	pct := percentagesFromDTO(in)
	if err := pct.Validate(); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, containerID, "update_percentages", func(repos CostingRepos, c *entity.Container) error {
		c.Percentages = pct
		c.UpdatedAt = time.Now()
		return repos.Containers.Update(ctx, c)
	})
}

// mutate bloquea el contenedor, aplica fn y recalcula en la misma transacción.
func (uc *ContainerUseCase) mutate(ctx context.Context, containerID, op string, fn func(repos CostingRepos, c *entity.Container) error) (*dto.ContainerResponse, error) {
	if containerID == "" {
		return nil, domain.Invalid("id de contenedor vacío")
	}
	err := uc.txRunner.RunCosting(ctx, func(repos CostingRepos) error {
		container, err := repos.Containers.GetForUpdate(ctx, containerID)
		if err != nil {
			return err
		}
		if container == nil {
			return fmt.Errorf("%w: contenedor %s", domain.ErrNotFound, containerID)
		}
		if err := fn(repos, container); err != nil {
			return err
		}
		_, err = recalculate(ctx, repos, containerID, uc.localCurrency)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("container_id", containerID).Str("op", op).Msg("mutación de contenedor rechazada")
		return nil, err
	}
	uc.log.Info().Str("container_id", containerID).Str("op", op).Msg("contenedor actualizado y recalculado")
	return uc.GetContainer(ctx, containerID)
}

// addLot persiste el lote y registra su entrada en la fecha de importación del contenedor.
func (uc *ContainerUseCase) addLot(ctx context.Context, repos CostingRepos, c *entity.Container, lot *entity.Lot, userID string, now time.Time) error {
	product, err := repos.Products.GetByID(ctx, lot.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, lot.ProductID)
	}
	lot.ContainerID = c.ID
	if err := repos.Lots.Create(ctx, lot); err != nil {
		return err
	}
	ref := fmt.Sprintf("contenedor %s", c.Code)
	return registerMovement(ctx, repos, lot.ProductID, entity.MovementKindEntry, lot.Quantity, c.ImportDate, ref, userID, now)
}

// registerMovement inserta el movimiento y actualiza el stock cacheado con bloqueo de fila.
func registerMovement(ctx context.Context, repos CostingRepos, productID, kind string, qty decimal.Decimal, date time.Time, ref, userID string, now time.Time) error {
	mov, err := entity.NewInventoryMovement(uuid.New().String(), productID, kind, qty, date, ref, userID, now)
	if err != nil {
		return err
	}
	inv, err := repos.Inventory.GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	next := inv.Quantity.Add(mov.SignedQuantity())
	if next.IsNegative() {
		return fmt.Errorf("%w: producto %s tiene %s, ajuste de %s", domain.ErrInsufficientStock, productID, inv.Quantity, qty)
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	inv.Quantity = next
	inv.UpdatedAt = now
	return repos.Inventory.Upsert(ctx, inv)
}
