package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// Canales de venta.
const (
	ChannelHardCurrency = "USD"
	ChannelFiscal       = "FISCAL"
	ChannelCash         = "EFECTIVO"
)

// Channels en el orden en que se listan las líneas de un mismo día y producto.
var Channels = []string{ChannelHardCurrency, ChannelFiscal, ChannelCash}

// IsChannel indica si ch es un canal de venta válido.
func IsChannel(ch string) bool {
	for _, c := range Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// Sale es el resultado confirmado de una distribución para un período.
type Sale struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Total       decimal.Decimal
	TransferIDs []string
	Lines       []*SaleLine
	CreatedAt   time.Time
	CreatedBy   string
}

// SaleLine es una línea de venta: un día, un producto, un lote y un canal.
type SaleLine struct {
	ID          string
	SaleID      string
	Date        time.Time
	ProductID   string
	ProductName string
	LotID       string
	Channel     string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// NewSaleLine construye una línea validada; Subtotal = Quantity * UnitPrice.
func NewSaleLine(id, saleID string, date time.Time, productID, productName, lotID, channel string, qty int64, unitPrice decimal.Decimal) (*SaleLine, error) {
	if id == "" || productID == "" || lotID == "" {
		return nil, domain.Invalid("línea de venta sin id, producto o lote")
	}
	if date.IsZero() {
		return nil, domain.Invalid("línea de venta sin fecha")
	}
	if !IsChannel(channel) {
		return nil, domain.Invalid("canal desconocido: %s", channel)
	}
	if qty <= 0 {
		return nil, domain.Invalid("cantidad de la línea debe ser positiva: %d", qty)
	}
	if unitPrice.IsNegative() {
		return nil, domain.Invalid("precio unitario negativo: %s", unitPrice)
	}
	return &SaleLine{
		ID:          id,
		SaleID:      saleID,
		Date:        DateOnly(date),
		ProductID:   productID,
		ProductName: productName,
		LotID:       lotID,
		Channel:     channel,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    decimal.NewFromInt(qty).Mul(unitPrice),
	}, nil
}

// ChannelTotals suma los subtotales de la venta por canal.
func (s *Sale) ChannelTotals() map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, ch := range Channels {
		out[ch] = decimal.Zero
	}
	for _, l := range s.Lines {
		out[l.Channel] = out[l.Channel].Add(l.Subtotal)
	}
	return out
}
