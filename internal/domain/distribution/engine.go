// Package distribution convierte una bolsa de transferencias bancarias en líneas de venta
// por día, producto y canal. Es código puro: los lotes FIFO, precios e inventario llegan
// resueltos desde la capa de aplicación y la aleatoriedad se inyecta.
package distribution

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

// Transfer transferencia de la bolsa.
type Transfer struct {
	ID     string
	Date   time.Time
	Amount decimal.Decimal
}

// Product producto a distribuir con su lote FIFO ya resuelto. LotID vacío indica que no
// hay lote disponible: el producto conserva su porcentaje pero queda excluido.
type Product struct {
	ProductID  string
	Name       string
	LotID      string
	ImportDate time.Time
	PackSize   int64
	Prices     inventory.ChannelPrices
	Split      inventory.ChannelSplit
	Percent    decimal.Decimal
}

// Request entrada del motor.
type Request struct {
	Start                   time.Time
	End                     time.Time
	Transfers               []Transfer
	Products                []Product
	AllowFiscalReassignment bool
}

// Line línea de venta propuesta.
type Line struct {
	Date        time.Time
	ProductID   string
	ProductName string
	LotID       string
	Channel     string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ProductSummary resumen por producto distribuido.
type ProductSummary struct {
	ProductID      string
	Name           string
	LotID          string
	Percent        decimal.Decimal
	AssignedAmount decimal.Decimal // parte de la bolsa (canal fiscal)
	TotalRevenue   decimal.Decimal // assigned / fiscal%
	Money          ChannelMoney
	Prices         inventory.ChannelPrices
	Units          ChannelUnits
	CoveredAmount  decimal.Decimal // unidades * precios, siempre >= TotalRevenue
	FiscalDays     []time.Time
	OtherDays      []time.Time
	Reassigned     bool // días fiscales reasignados por conflicto de fechas
}

// Exclusion producto que quedó fuera de la distribución y por qué.
type Exclusion struct {
	ProductID string
	Name      string
	Reason    string
}

// Result vista previa de la distribución.
type Result struct {
	Start         time.Time
	End           time.Time
	TransferTotal decimal.Decimal
	TransferDays  []time.Time
	OtherDays     []time.Time
	Lines         []Line
	Products      []ProductSummary
	Excluded      []Exclusion
}

// Total suma los subtotales de todas las líneas.
func (r Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// UnitsByProduct total de unidades por producto en las líneas.
func (r Result) UnitsByProduct() map[string]int64 {
	out := make(map[string]int64, len(r.Products))
	for _, l := range r.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// Engine motor de distribución de ventas.
type Engine struct {
	rng RandomSource
}

// NewEngine construye el motor con la fuente aleatoria indicada.
func NewEngine(rng RandomSource) *Engine {
	return &Engine{rng: rng}
}

// Distribute calcula las líneas de venta. Un producto sin días válidos (o con un canal con
// dinero pero sin precio) queda excluido con su motivo; no es un error.
func (e *Engine) Distribute(req Request) (Result, error) {
	if req.Start.IsZero() || req.End.IsZero() || req.End.Before(req.Start) {
		return Result{}, domain.Invalid("período inválido")
	}
	res := Result{Start: entity.DateOnly(req.Start), End: entity.DateOnly(req.End), TransferTotal: decimal.Zero}

	dates := make([]time.Time, 0, len(req.Transfers))
	for _, t := range req.Transfers {
		res.TransferTotal = res.TransferTotal.Add(t.Amount)
		dates = append(dates, t.Date)
	}
	// 1. Días de transferencia y otros días
	res.TransferDays, res.OtherDays = PartitionDays(req.Start, req.End, dates)
	if len(req.Products) == 0 {
		return res, nil
	}

	// 2. Normalizar porcentajes a 100
	shares := make([]Share, len(req.Products))
	for i, p := range req.Products {
		shares[i] = Share{ProductID: p.ProductID, Percent: p.Percent}
	}
	normalized, err := NormalizePercentages(shares)
	if err != nil {
		return Result{}, err
	}

	agg := newLineAggregator()
	for i, p := range req.Products {
		p.Percent = normalized[i].Percent
		summary, reason := e.distributeProduct(req, res, p, agg)
		if reason != "" {
			res.Excluded = append(res.Excluded, Exclusion{ProductID: p.ProductID, Name: p.Name, Reason: reason})
			continue
		}
		res.Products = append(res.Products, summary)
	}
	res.Lines = agg.lines()
	return res, nil
}

func (e *Engine) distributeProduct(req Request, res Result, p Product, agg *lineAggregator) (ProductSummary, string) {
	if p.LotID == "" {
		return ProductSummary{}, "sin lote importado a la fecha"
	}
	// 3. Días válidos: desde la fecha de importación del lote
	fiscalDays := DaysFrom(res.TransferDays, p.ImportDate)
	otherDays := DaysFrom(res.OtherDays, p.ImportDate)
	reassigned := false
	if len(fiscalDays) == 0 {
		if !req.AllowFiscalReassignment {
			return ProductSummary{}, "sin días de transferencia posteriores a la importación"
		}
		valid := DaysFrom(BusinessDays(req.Start, req.End), p.ImportDate)
		n := len(res.TransferDays)
		if n > len(valid) {
			n = len(valid)
		}
		fiscalDays = append([]time.Time(nil), valid[:n]...)
		reassigned = true
		if len(fiscalDays) == 0 {
			return ProductSummary{}, "sin días hábiles posteriores a la importación"
		}
	}
	if len(otherDays) == 0 {
		otherDays = fiscalDays
	}

	// 4. Dinero -> ingreso total -> dinero por canal -> unidades
	if !p.Split.FiscalPct.IsPositive() {
		return ProductSummary{}, "el contenedor del lote no tiene porcentaje fiscal"
	}
	assigned := res.TransferTotal.Mul(p.Percent).Div(hundred)
	total, money := RevenueTargets(assigned, p.Split)
	for _, ch := range entity.Channels {
		if money.ForChannel(ch).IsPositive() && !p.Prices.ForChannel(ch).IsPositive() {
			return ProductSummary{}, fmt.Sprintf("precio cero en el canal %s", ch)
		}
	}
	units := UnitsForMoney(money, p.Prices)

	// 5-6. Reparto por días con cuantización por bulto
	daysFor := map[string][]time.Time{
		entity.ChannelFiscal:       fiscalDays,
		entity.ChannelHardCurrency: otherDays,
		entity.ChannelCash:         otherDays,
	}
	for _, ch := range entity.Channels {
		days := daysFor[ch]
		perDay := SplitByPacks(units.ForChannel(ch), p.PackSize, len(days), e.rng)
		for i, qty := range perDay {
			if qty <= 0 {
				continue
			}
			agg.add(Line{
				Date:        days[i],
				ProductID:   p.ProductID,
				ProductName: p.Name,
				LotID:       p.LotID,
				Channel:     ch,
				Quantity:    qty,
				UnitPrice:   p.Prices.ForChannel(ch),
			})
		}
	}

	return ProductSummary{
		ProductID:      p.ProductID,
		Name:           p.Name,
		LotID:          p.LotID,
		Percent:        p.Percent,
		AssignedAmount: assigned,
		TotalRevenue:   total,
		Money:          money,
		Prices:         p.Prices,
		Units:          units,
		CoveredAmount:  CoveredAmount(units, p.Prices),
		FiscalDays:     fiscalDays,
		OtherDays:      otherDays,
		Reassigned:     reassigned,
	}, ""
}

type lineKey struct {
	date      time.Time
	productID string
	channel   string
}

// lineAggregator agrupa líneas por día, producto y canal.
type lineAggregator struct {
	byKey map[lineKey]*Line
	order []lineKey
}

func newLineAggregator() *lineAggregator {
	return &lineAggregator{byKey: make(map[lineKey]*Line)}
}

func (a *lineAggregator) add(l Line) {
	k := lineKey{date: l.Date, productID: l.ProductID, channel: l.Channel}
	if existing, ok := a.byKey[k]; ok {
		existing.Quantity += l.Quantity
		return
	}
	a.byKey[k] = &l
	a.order = append(a.order, k)
}

// lines devuelve las líneas con subtotal, ordenadas por fecha, nombre de producto y canal.
func (a *lineAggregator) lines() []Line {
	out := make([]Line, 0, len(a.order))
	for _, k := range a.order {
		l := *a.byKey[k]
		l.Subtotal = decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return channelOrder(out[i].Channel) < channelOrder(out[j].Channel)
	})
	return out
}

func channelOrder(ch string) int {
	for i, c := range entity.Channels {
		if c == ch {
			return i
		}
	}
	return len(entity.Channels)
}
