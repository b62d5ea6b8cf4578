package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// transferNamespace espacio de nombres de los IDs deterministas: reimportar el mismo extracto
// produce los mismos IDs y el INSERT ... ON CONFLICT no duplica.
var transferNamespace = uuid.MustParse("6f1c9a52-3d0b-4c53-9a8e-2b7f0d4e8a11")

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// Columnas reconocidas del extracto (en minúsculas y sin tildes).
var (
	colDate      = []string{"fecha", "fecha valor", "fecha operacion"}
	colReference = []string{"referencia", "ref", "no. referencia", "documento"}
	colAmount    = []string{"importe", "monto", "credito"}
)

// rowError fila descartada del extracto.
type rowError struct {
	Line   int
	Reason string
}

func (e rowError) Error() string { return fmt.Sprintf("línea %d: %s", e.Line, e.Reason) }

// decodeStatement devuelve el contenido en UTF-8. Los bancos exportan en Latin-1;
// si el archivo ya es UTF-8 válido se usa tal cual (quitando el BOM).
func decodeStatement(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decodificar Latin-1: %w", err)
	}
	return out, nil
}

// parseStatement lee el extracto (separado por ';') y devuelve las transferencias de entrada.
// Los débitos y las filas ilegibles se descartan y se informan en skipped.
func parseStatement(r io.Reader, now time.Time) (transfers []*entity.Transfer, skipped []rowError, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("leer extracto: %w", err)
	}
	data, err := decodeStatement(raw)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("extracto vacío")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idxDate, idxRef, idxAmount := findColumn(header, colDate), findColumn(header, colReference), findColumn(header, colAmount)
	if idxDate < 0 || idxAmount < 0 {
		return nil, nil, fmt.Errorf("cabecera sin columnas de fecha e importe: %v", header)
	}

	seen := make(map[string]bool)
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped = append(skipped, rowError{Line: line, Reason: err.Error()})
			continue
		}
		get := func(idx int) string {
			if idx >= 0 && idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}
		if get(idxDate) == "" && get(idxAmount) == "" {
			continue
		}

		date, err := parseDate(get(idxDate))
		if err != nil {
			skipped = append(skipped, rowError{Line: line, Reason: err.Error()})
			continue
		}
		amount, err := parseAmount(get(idxAmount))
		if err != nil {
			skipped = append(skipped, rowError{Line: line, Reason: err.Error()})
			continue
		}
		if !amount.IsPositive() {
			skipped = append(skipped, rowError{Line: line, Reason: "débito o importe cero"})
			continue
		}

		ref := get(idxRef)
		id := transferID(date, amount, ref)
		if seen[id] {
			skipped = append(skipped, rowError{Line: line, Reason: "fila duplicada"})
			continue
		}
		seen[id] = true

		t, err := entity.NewTransfer(id, date, amount, ref, now)
		if err != nil {
			skipped = append(skipped, rowError{Line: line, Reason: err.Error()})
			continue
		}
		transfers = append(transfers, t)
	}
	return transfers, skipped, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = normalizeHeader(h)
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n").Replace(s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

// parseAmount acepta formato local ("1.234,56") y con punto decimal ("1234.56").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(" ", "", "$", "").Replace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe inválido %q", s)
	}
	return d, nil
}

func transferID(date time.Time, amount decimal.Decimal, ref string) string {
	key := date.Format("2006-01-02") + "|" + amount.StringFixed(2) + "|" + ref
	return uuid.NewSHA1(transferNamespace, []byte(key)).String()
}

// writeSQL escribe un INSERT idempotente por transferencia.
func writeSQL(w io.Writer, source string, transfers []*entity.Transfer) error {
	if _, err := fmt.Fprintf(w, "-- Transferencias importadas desde %s\n\n", source); err != nil {
		return err
	}
	for _, t := range transfers {
		_, err := fmt.Fprintf(w,
			"INSERT INTO transfers (id, date, amount, reference) VALUES ('%s', '%s', %s, '%s')\nON CONFLICT (id) DO NOTHING;\n",
			t.ID, t.Date.Format("2006-01-02"), t.Amount.StringFixed(2), escapeSQL(t.Reference))
		if err != nil {
			return err
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
