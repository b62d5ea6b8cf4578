package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// RecalculateUseCase recalcula todos los lotes de un contenedor de forma atómica.
type RecalculateUseCase struct {
	txRunner      CostingTxRunner
	localCurrency string
	log           *logger.Logger
}

// NewRecalculateUseCase construye el caso de uso. localCurrency es el código de la moneda local
// (sus gastos se convierten con tasa 1 si el catálogo no la trae).
func NewRecalculateUseCase(txRunner CostingTxRunner, localCurrency string, log *logger.Logger) *RecalculateUseCase {
	return &RecalculateUseCase{txRunner: txRunner, localCurrency: localCurrency, log: log.Component("costing")}
}

// RecalculateContainer bloquea el contenedor, prorratea gastos, recalcula cada lote y guarda
// los campos cacheados. Si cualquier lote falla no se guarda ninguno.
func (uc *RecalculateUseCase) RecalculateContainer(ctx context.Context, containerID string) (*dto.RecalculationResponse, error) {
	if containerID == "" {
		return nil, domain.Invalid("id de contenedor vacío")
	}
	var rec *Recalculation
	err := uc.txRunner.RunCosting(ctx, func(repos CostingRepos) error {
		var err error
		rec, err = recalculate(ctx, repos, containerID, uc.localCurrency)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("container_id", containerID).Msg("recálculo rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("container_id", containerID).
		Int("lots", len(rec.Lots)).
		Str("total_expense_local", rec.TotalExpenseLocal.StringFixed(2)).
		Msg("contenedor recalculado")
	return toRecalculationResponse(rec), nil
}

// recalculate corre dentro de una transacción ya abierta.
func recalculate(ctx context.Context, repos CostingRepos, containerID, localCurrency string) (*Recalculation, error) {
	container, err := repos.Containers.GetForUpdate(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("%w: contenedor %s", domain.ErrNotFound, containerID)
	}
	lots, err := repos.Lots.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	expenses, err := repos.Expenses.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	overrides, err := repos.Rates.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	currencies, err := repos.Currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	if localCurrency != "" {
		currencies = append(currencies, &entity.Currency{Code: localCurrency, DefaultRate: decimal.NewFromInt(1)})
	}

	rec, err := Recompute(Snapshot{
		Container: container,
		Lots:      lots,
		Expenses:  expenses,
		Rates:     pricing.NewRateTable(overrides, currencies),
	}, time.Now())
	if err != nil {
		return nil, err
	}
	for _, lr := range rec.Lots {
		if err := repos.Lots.UpdateCalculated(ctx, lr.Lot); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
