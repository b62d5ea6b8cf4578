package distribution

import (
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// IsBusinessDay: lunes a sábado.
func IsBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Sunday
}

// BusinessDays devuelve los días hábiles (lun-sáb) del período [start, end], solo fecha.
func BusinessDays(start, end time.Time) []time.Time {
	from, to := entity.DateOnly(start), entity.DateOnly(end)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// TransferDay ubica la fecha de una transferencia en un día hábil del período.
// Un domingo pasa al lunes siguiente, o al sábado anterior si el lunes queda fuera del período.
func TransferDay(date, start, end time.Time) (time.Time, bool) {
	d := entity.DateOnly(date)
	from, to := entity.DateOnly(start), entity.DateOnly(end)
	if d.Before(from) || d.After(to) {
		return time.Time{}, false
	}
	if IsBusinessDay(d) {
		return d, true
	}
	if next := d.AddDate(0, 0, 1); !next.After(to) {
		return next, true
	}
	if prev := d.AddDate(0, 0, -1); !prev.Before(from) {
		return prev, true
	}
	return time.Time{}, false
}

// PartitionDays separa los días hábiles del período en "días de transferencia"
// (alguna transferencia cae ese día) y "otros días". Ambos quedan ordenados.
func PartitionDays(start, end time.Time, transferDates []time.Time) (transferDays, otherDays []time.Time) {
	marked := make(map[time.Time]bool, len(transferDates))
	for _, td := range transferDates {
		if d, ok := TransferDay(td, start, end); ok {
			marked[d] = true
		}
	}
	for _, d := range BusinessDays(start, end) {
		if marked[d] {
			transferDays = append(transferDays, d)
		} else {
			otherDays = append(otherDays, d)
		}
	}
	return transferDays, otherDays
}

// DaysFrom filtra los días >= from (comparación solo por fecha).
func DaysFrom(days []time.Time, from time.Time) []time.Time {
	limit := entity.DateOnly(from)
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		if !d.Before(limit) {
			out = append(out, d)
		}
	}
	return out
}
