package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// StockValidator contrasta una distribución (o una asignación aún sin distribuir) con el
// stock histórico del kardex. No modifica nada.
type StockValidator struct {
	readers Readers
	fifo    *FIFOResolver
	ledger  *StockLedger
	log     *logger.Logger
}

// NewStockValidator construye el validador.
func NewStockValidator(readers Readers, log *logger.Logger) *StockValidator {
	return &StockValidator{
		readers: readers,
		fifo:    NewFIFOResolver(readers.Lots),
		ledger:  NewStockLedger(readers.Movements),
		log:     log.Component("sales"),
	}
}

// ValidateDistribution compara las unidades requeridas por producto en las líneas con el
// stock al cierre del fin del período.
func (v *StockValidator) ValidateDistribution(ctx context.Context, in dto.ValidateStockRequest) (*dto.StockValidationResponse, error) {
	end, err := dto.ParseDate("period_end", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("no hay líneas que validar")
	}

	required := make(map[string]decimal.Decimal)
	names := make(map[string]string)
	order := make([]string, 0)
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return nil, domain.Invalid("línea sin producto o con cantidad no positiva")
		}
		if _, ok := required[l.ProductID]; !ok {
			order = append(order, l.ProductID)
			required[l.ProductID] = decimal.Zero
		}
		required[l.ProductID] = required[l.ProductID].Add(decimal.NewFromInt(l.Quantity))
		if l.ProductName != "" {
			names[l.ProductID] = l.ProductName
		}
	}

	out := &dto.StockValidationResponse{Reasons: []string{}, Products: make([]dto.ProductStockDTO, 0, len(order))}
	for _, id := range order {
		name, err := v.productName(ctx, id, names[id])
		if err != nil {
			return nil, err
		}
		available, err := v.ledger.StockAt(ctx, id, inventory.EndOfDay(end))
		if err != nil {
			return nil, fmt.Errorf("sales: stock de %s: %w", id, err)
		}
		out.Products = append(out.Products, dto.ProductStockDTO{
			ProductID: id,
			Name:      name,
			Required:  required[id],
			Available: available,
		})
		if reason := stockReason(name, required[id], available, end); reason != "" {
			out.Reasons = append(out.Reasons, reason)
		}
	}
	out.Valid = len(out.Reasons) == 0
	v.logResult("validación de stock", out)
	return out, nil
}

// ValidateAllocation es la validación previa: sin distribuir, invierte la matemática de canales
// para obtener unidades requeridas y el máximo de transferencias que el stock puede respaldar,
// por producto y en conjunto.
func (v *StockValidator) ValidateAllocation(ctx context.Context, in dto.PreviewRequest) (*dto.StockValidationResponse, error) {
	start, end, err := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	transfers, err := loadTransfers(ctx, v.readers.Transfers, in.TransferIDs, start, end, true)
	if err != nil {
		return nil, err
	}
	pool := decimal.Zero
	for _, t := range transfers {
		pool = pool.Add(t.Amount)
	}
	shares, err := resolveShares(ctx, v.readers.Inventory, in)
	if err != nil {
		return nil, err
	}
	shares, err = distribution.NormalizePercentages(shares)
	if err != nil {
		return nil, err
	}
	products, err := buildProducts(ctx, v.readers.Products, v.fifo, shares, end)
	if err != nil {
		return nil, err
	}

	out := &dto.StockValidationResponse{Reasons: []string{}, Products: make([]dto.ProductStockDTO, 0, len(products))}
	coverable := decimal.Zero
	for _, p := range products {
		available, err := v.ledger.StockAt(ctx, p.ProductID, inventory.EndOfDay(end))
		if err != nil {
			return nil, fmt.Errorf("sales: stock de %s: %w", p.ProductID, err)
		}
		assigned := pool.Mul(p.Percent).Div(hundred)
		item := dto.ProductStockDTO{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Required:        decimal.Zero,
			Available:       available,
			AllocatedAmount: &assigned,
		}
		switch {
		case p.LotID == "":
			out.Reasons = append(out.Reasons, fmt.Sprintf("%s: sin lote importado al %s", p.Name, dto.FormatDate(end)))
		case !p.Split.FiscalPct.IsPositive():
			out.Reasons = append(out.Reasons, fmt.Sprintf("%s: el contenedor del lote no tiene porcentaje fiscal", p.Name))
		default:
			_, money := distribution.RevenueTargets(assigned, p.Split)
			units := distribution.UnitsForMoney(money, p.Prices)
			item.Required = decimal.NewFromInt(units.Total())
			maxTransfer := distribution.MaxTransferAmount(available, p.Split, p.Prices)
			item.MaxTransferAmount = &maxTransfer
			coverable = coverable.Add(maxTransfer)
			if reason := stockReason(p.Name, item.Required, available, end); reason != "" {
				out.Reasons = append(out.Reasons, reason)
			}
		}
		out.Products = append(out.Products, item)
	}
	if pool.GreaterThan(coverable) {
		out.Reasons = append(out.Reasons, fmt.Sprintf(
			"liquidez insuficiente: las transferencias suman %s y el stock solo respalda %s",
			formatAmount(pool), formatAmount(coverable)))
	}
	out.Valid = len(out.Reasons) == 0
	v.logResult("validación previa de asignación", out)
	return out, nil
}

func (v *StockValidator) productName(ctx context.Context, id, fallback string) (string, error) {
	if fallback != "" {
		return fallback, nil
	}
	p, err := v.readers.Products.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("sales: leer producto %s: %w", id, err)
	}
	if p == nil {
		return "", fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p.Name, nil
}

func (v *StockValidator) logResult(msg string, out *dto.StockValidationResponse) {
	ev := v.log.Info()
	if !out.Valid {
		ev = v.log.Warn().Strs("reasons", out.Reasons)
	}
	ev.Bool("valid", out.Valid).Int("products", len(out.Products)).Msg(msg)
}

// stockReason describe la falta de stock de un producto, o "" si alcanza.
func stockReason(name string, required, available decimal.Decimal, at time.Time) string {
	if !available.IsPositive() {
		return fmt.Sprintf("%s: sin inventario al %s", name, dto.FormatDate(at))
	}
	if required.GreaterThan(available) {
		return fmt.Sprintf("%s: stock insuficiente, requiere %s unidades y hay %s",
			name, formatUnits(required), formatUnits(available))
	}
	return ""
}
