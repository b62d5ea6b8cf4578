package sales

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Los motivos de validación se muestran al usuario: montos con separadores en español.
var reasonLang = language.Spanish

func formatAmount(v decimal.Decimal) string {
	return message.NewPrinter(reasonLang).Sprintf("%.2f", v.Round(2).InexactFloat64())
}

func formatUnits(v decimal.Decimal) string {
	return message.NewPrinter(reasonLang).Sprintf("%d", v.Ceil().IntPart())
}
