package similarity

import (
	"math"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/util"
)

// Location similarity levels.
const (
	locExact     = 1.0
	locSameState = 0.7
)

// LocationSimilarity is 1.0 for the same city and state or both remote,
// 0.7 for the same state, 0 otherwise.
func LocationSimilarity(a, b string) float64 {
	na, nb := util.NormalizeText(a), util.NormalizeText(b)
	if na == nb {
		return locExact
	}
	la, lb := util.ParseLocation(a), util.ParseLocation(b)
	return parsedLocationSimilarity(la, lb)
}

func parsedLocationSimilarity(la, lb util.Location) float64 {
	if la.Remote && lb.Remote {
		return locExact
	}
	if la.State != "" && la.State == lb.State {
		if la.City != "" && la.City == lb.City {
			return locExact
		}
		return locSameState
	}
	return 0
}

const neutralSalary = 0.5

func salaryBounds(r *domain.SalaryRange) (lo, hi float64, ok bool) {
	if r == nil || (r.Min <= 0 && r.Max <= 0) {
		return 0, 0, false
	}
	lo, hi = r.Min, r.Max
	if lo <= 0 {
		lo = hi
	}
	if hi <= 0 {
		hi = lo
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// SalarySimilarity is the overlap of the two ranges divided by their
// combined span. A range missing on one side is neutral (0.5); missing on
// both sides means there is nothing to disagree on.
func SalarySimilarity(a, b *domain.SalaryRange) float64 {
	alo, ahi, aok := salaryBounds(a)
	blo, bhi, bok := salaryBounds(b)
	switch {
	case !aok && !bok:
		return 1.0
	case !aok || !bok:
		return neutralSalary
	}
	overlap := math.Min(ahi, bhi) - math.Max(alo, blo)
	if overlap < 0 {
		return 0
	}
	span := math.Max(ahi, bhi) - math.Min(alo, blo)
	if span == 0 {
		return 1.0
	}
	return overlap / span
}

func requirementSimilarity(pa, pb []string, ta, tb string) float64 {
	if s, ok := Jaccard(pa, pb); ok {
		return s
	}
	return TextRatio(ta, tb)
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
