package distribution

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Share porcentaje de la bolsa de transferencias asignado a un producto.
type Share struct {
	ProductID string
	Percent   decimal.Decimal
}

// NormalizePercentages reescala los porcentajes para que sumen exactamente 100.
// El último producto con porcentaje positivo absorbe el residuo.
func NormalizePercentages(shares []Share) ([]Share, error) {
	sum := decimal.Zero
	last := -1
	for i, s := range shares {
		if s.Percent.IsNegative() {
			return nil, domain.Invalid("porcentaje negativo para %s", s.ProductID)
		}
		sum = sum.Add(s.Percent)
		if s.Percent.IsPositive() {
			last = i
		}
	}
	if last < 0 {
		return nil, domain.Invalid("la asignación por producto suma cero")
	}
	out := make([]Share, len(shares))
	assigned := decimal.Zero
	for i, s := range shares {
		out[i] = Share{ProductID: s.ProductID, Percent: decimal.Zero}
		if i == last {
			continue
		}
		out[i].Percent = s.Percent.Mul(hundred).Div(sum)
		assigned = assigned.Add(out[i].Percent)
	}
	out[last].Percent = hundred.Sub(assigned)
	return out, nil
}

// SharesFromStock deriva la asignación automática: cada producto recibe un porcentaje
// proporcional a su stock. Productos sin stock quedan fuera.
func SharesFromStock(productIDs []string, stock map[string]decimal.Decimal) ([]Share, error) {
	shares := make([]Share, 0, len(productIDs))
	for _, id := range productIDs {
		if q := stock[id]; q.IsPositive() {
			shares = append(shares, Share{ProductID: id, Percent: q})
		}
	}
	if len(shares) == 0 {
		return nil, domain.Invalid("ningún producto seleccionado tiene stock")
	}
	return NormalizePercentages(shares)
}
