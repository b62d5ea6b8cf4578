package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

// SaleReportUseCase genera el PDF de una venta confirmada.
type SaleReportUseCase struct {
	sales     SaleReader
	generator SaleReportGenerator
}

// NewSaleReportUseCase construye el caso de uso.
func NewSaleReportUseCase(sales SaleReader, generator SaleReportGenerator) *SaleReportUseCase {
	return &SaleReportUseCase{sales: sales, generator: generator}
}

// DownloadSaleReport devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *SaleReportUseCase) DownloadSaleReport(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	pdf, err := uc.generator.GenerateSaleReport(ctx, sale)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("venta_%s_%s.pdf", sale.PeriodStart.Format("20060102"), sale.PeriodEnd.Format("20060102"))
	return pdf, filename, nil
}

// StockQueryUseCase consulta el catálogo y el stock histórico de los productos.
type StockQueryUseCase struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	ledger    *StockLedger
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(products repository.ProductRepository, inv repository.InventoryRepository, movements repository.InventoryMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{products: products, inventory: inv, ledger: NewStockLedger(movements)}
}

// ListProducts devuelve el catálogo con el saldo cacheado actual.
func (uc *StockQueryUseCase) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		inv, err := uc.inventory.Get(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ProductResponse{
			ID:       p.ID,
			Code:     p.Code,
			Name:     p.Name,
			PackSize: p.EffectivePackSize(),
			Stock:    inv.Quantity,
		})
	}
	return out, nil
}

// GetStock devuelve el stock al cierre de date (YYYY-MM-DD); date vacío = hoy.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID, date string) (*dto.StockResponse, error) {
	at := time.Now().UTC()
	if date != "" {
		d, err := dto.ParseDate("date", date)
		if err != nil {
			return nil, err
		}
		at = d
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	qty, err := uc.ledger.StockAt(ctx, productID, inventory.EndOfDay(at))
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ProductID: productID, Date: dto.FormatDate(at), Quantity: qty}, nil
}
