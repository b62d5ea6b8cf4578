package dto

import (
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// DateLayout formato de fecha (sin hora) en requests y responses.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseDate interpreta una fecha YYYY-MM-DD (UTC). Devuelve ErrInvalidInput con el campo si falla.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.Invalid("%s: fecha inválida %q (formato %s)", field, value, DateLayout)
	}
	return t, nil
}

// FormatDate serializa solo la fecha.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
