package sales

import (
	"context"
	"sync"

	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

// SalesRepos repositorios atados a una misma transacción.
type SalesRepos struct {
	Transfers repository.TransferRepository
	Sales     repository.SaleRepository
	Movements repository.InventoryMovementRepository
	Inventory repository.InventoryRepository
}

// SalesTxRunner ejecuta fn dentro de una transacción: confirmar o eliminar una venta
// (transferencias + líneas + kardex + inventario) es todo o nada.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(repos SalesRepos) error) error
}

// Readers lecturas sin transacción que usan la vista previa y los validadores.
type Readers struct {
	Transfers repository.TransferRepository
	Products  repository.ProductRepository
	Lots      repository.LotRepository
	Movements repository.InventoryMovementRepository
	Inventory repository.InventoryRepository
	Sales     repository.SaleRepository
}

// SaleReportGenerator genera el reporte imprimible de una venta confirmada.
type SaleReportGenerator interface {
	GenerateSaleReport(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// LockedSource serializa el acceso a una fuente aleatoria para compartirla entre
// vistas previas concurrentes (*rand.Rand no es seguro para uso concurrente).
type LockedSource struct {
	mu  sync.Mutex
	src distribution.RandomSource
}

// NewLockedSource envuelve src.
func NewLockedSource(src distribution.RandomSource) *LockedSource {
	return &LockedSource{src: src}
}

// Float64 implementa distribution.RandomSource.
func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
