package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// ConfirmSaleUseCase persiste una vista previa aceptada como venta y la revierte al eliminarla.
type ConfirmSaleUseCase struct {
	txRunner SalesTxRunner
	sales    SaleReader
	log      *logger.Logger
}

// SaleReader lectura de ventas fuera de transacción.
type SaleReader interface {
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}

// NewConfirmSaleUseCase construye el caso de uso.
func NewConfirmSaleUseCase(txRunner SalesTxRunner, sales SaleReader, log *logger.Logger) *ConfirmSaleUseCase {
	return &ConfirmSaleUseCase{txRunner: txRunner, sales: sales, log: log.Component("sales")}
}

// ConfirmSale en una sola transacción: bloquea las transferencias y re-verifica que sigan libres,
// crea la venta con sus líneas, registra una salida de kardex por línea, descuenta el inventario
// y vincula las transferencias. Si otra confirmación ganó alguna transferencia devuelve
// domain.ErrTransferLinked y no queda nada escrito.
func (uc *ConfirmSaleUseCase) ConfirmSale(ctx context.Context, userID string, in dto.ConfirmSaleRequest) (*dto.SaleResponse, error) {
	start, end, err := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	transferIDs := uniqueIDs(in.TransferIDs)
	if len(transferIDs) == 0 {
		return nil, domain.Invalid("se requiere al menos una transferencia")
	}
	// orden fijo de bloqueo entre confirmaciones concurrentes
	sort.Strings(transferIDs)

	now := time.Now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		PeriodStart: start,
		PeriodEnd:   end,
		Total:       decimal.Zero,
		TransferIDs: transferIDs,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la venta no tiene líneas")
	}
	for i, l := range in.Lines {
		date, err := dto.ParseDate(fmt.Sprintf("lines[%d].date", i), l.Date)
		if err != nil {
			return nil, err
		}
		if date.Before(start) || date.After(end) {
			return nil, domain.Invalid("lines[%d]: fecha %s fuera del período", i, l.Date)
		}
		line, err := entity.NewSaleLine(uuid.New().String(), sale.ID, date, l.ProductID, l.ProductName, l.LotID, l.Channel, l.Quantity, l.UnitPrice)
		if err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, line)
		sale.Total = sale.Total.Add(line.Subtotal)
	}

	err = uc.txRunner.RunSales(ctx, func(repos SalesRepos) error {
		for _, id := range transferIDs {
			t, err := repos.Transfers.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("%w: transferencia %s", domain.ErrNotFound, id)
			}
			if t.IsLinked() {
				return fmt.Errorf("%w (%s)", domain.ErrTransferLinked, id)
			}
			day := entity.DateOnly(t.Date)
			if day.Before(start) || day.After(end) {
				return domain.Invalid("la transferencia %s está fuera del período", id)
			}
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		ref := "venta " + sale.ID
		required := make(map[string]decimal.Decimal)
		for _, l := range sale.Lines {
			qty := decimal.NewFromInt(l.Quantity)
			mov, err := entity.NewInventoryMovement(uuid.New().String(), l.ProductID, entity.MovementKindExit, qty, l.Date, ref, userID, now)
			if err != nil {
				return err
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
			required[l.ProductID] = required[l.ProductID].Add(qty)
		}
		if err := adjustInventory(ctx, repos, required, true, now); err != nil {
			return err
		}

		for _, id := range transferIDs {
			if err := repos.Transfers.LinkToSale(ctx, id, sale.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Strs("transfer_ids", transferIDs).Msg("confirmación de venta rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Int("lines", len(sale.Lines)).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta confirmada")
	return toSaleResponse(sale), nil
}

// DeleteSale desvincula las transferencias, devuelve el stock con ajustes positivos fechados
// en el día de cada línea (el kardex histórico queda como si la venta no hubiera ocurrido)
// y elimina la venta con sus líneas.
func (uc *ConfirmSaleUseCase) DeleteSale(ctx context.Context, userID, saleID string) error {
	if saleID == "" {
		return domain.Invalid("id de venta vacío")
	}
	now := time.Now()
	err := uc.txRunner.RunSales(ctx, func(repos SalesRepos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if err := repos.Transfers.UnlinkSale(ctx, saleID); err != nil {
			return err
		}
		ref := "anulación venta " + saleID
		restored := make(map[string]decimal.Decimal)
		for _, l := range sale.Lines {
			qty := decimal.NewFromInt(l.Quantity)
			mov, err := entity.NewInventoryMovement(uuid.New().String(), l.ProductID, entity.MovementKindAdjustmentIn, qty, l.Date, ref, userID, now)
			if err != nil {
				return err
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
			restored[l.ProductID] = restored[l.ProductID].Add(qty)
		}
		if err := adjustInventory(ctx, repos, restored, false, now); err != nil {
			return err
		}
		return repos.Sales.Delete(ctx, saleID)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("eliminación de venta rechazada")
		return err
	}
	uc.log.Info().Str("sale_id", saleID).Msg("venta eliminada")
	return nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *ConfirmSaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	return toSaleResponse(sale), nil
}

// adjustInventory bloquea y actualiza el stock cacheado por producto en orden de ID.
// decrement exige stock suficiente.
func adjustInventory(ctx context.Context, repos SalesRepos, deltas map[string]decimal.Decimal, decrement bool, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		inv, err := repos.Inventory.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		qty := deltas[id]
		if decrement {
			if inv.Quantity.LessThan(qty) {
				return fmt.Errorf("%w: producto %s requiere %s y hay %s", domain.ErrInsufficientStock, id, qty, inv.Quantity)
			}
			qty = qty.Neg()
		}
		inv.Quantity = inv.Quantity.Add(qty)
		inv.UpdatedAt = now
		if err := repos.Inventory.Upsert(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}
