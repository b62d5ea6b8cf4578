package distribution

import "math"

// MaxVariance variación máxima (±20%) alrededor del reparto parejo de bultos por día.
const MaxVariance = 0.20

// RandomSource fuente aleatoria inyectable; *rand.Rand de math/rand/v2 la implementa.
type RandomSource interface {
	Float64() float64
}

// SplitByPacks reparte total unidades entre days días respetando el tamaño de bulto:
//   - si hay menos bultos que días, se asigna un bulto por día desde el primero y el resto
//     (fracción de bulto) va al último día con unidades;
//   - si no, cada día salvo el último recibe el reparto parejo ±20% con al menos un bulto,
//     el último día absorbe los bultos restantes y la fracción de bulto se suma al día
//     que más recibió.
func SplitByPacks(total, packSize int64, days int, rng RandomSource) []int64 {
	if days <= 0 {
		return nil
	}
	if packSize < 1 {
		packSize = 1
	}
	out := make([]int64, days)
	if total <= 0 {
		return out
	}
	packs := total / packSize
	rem := total % packSize

	if packs < int64(days) {
		for i := int64(0); i < packs; i++ {
			out[i] = packSize
		}
		last := int64(0)
		if packs > 0 {
			last = packs - 1
		}
		out[last] += rem
		return out
	}

	perDay := make([]int64, days)
	remaining := packs
	even := float64(packs) / float64(days)
	for i := 0; i < days-1; i++ {
		u := (rng.Float64()*2 - 1) * MaxVariance
		pick := int64(math.Round(even * (1 + u)))
		// cada día posterior, salvo el último, necesita al menos un bulto
		maxPick := remaining - int64(days-2-i)
		if pick > maxPick {
			pick = maxPick
		}
		if pick < 1 {
			pick = 1
		}
		perDay[i] = pick
		remaining -= pick
	}
	perDay[days-1] = remaining

	maxIdx := 0
	for i := range perDay {
		out[i] = perDay[i] * packSize
		if out[i] > out[maxIdx] {
			maxIdx = i
		}
	}
	out[maxIdx] += rem
	return out
}
