package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobwatch-engine/internal/domain"
)

func TestSalarySimilarity(t *testing.T) {
	r := func(lo, hi float64) *domain.SalaryRange { return &domain.SalaryRange{Min: lo, Max: hi} }

	cases := []struct {
		name string
		a, b *domain.SalaryRange
		want float64
	}{
		{"identical", r(100, 150), r(100, 150), 1.0},
		{"partial overlap", r(100, 150), r(120, 170), 30.0 / 70.0},
		{"contained", r(100, 200), r(120, 160), 40.0 / 100.0},
		{"disjoint", r(100, 120), r(130, 150), 0},
		{"touching", r(100, 120), r(120, 150), 0},
		{"one missing", r(100, 150), nil, 0.5},
		{"other missing", nil, r(100, 150), 0.5},
		{"zero range counts as missing", &domain.SalaryRange{}, r(100, 150), 0.5},
		{"both missing", nil, nil, 1.0},
		{"same point", r(120, 0), r(120, 120), 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, SalarySimilarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestLocationSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"Austin, TX", "Austin, TX", 1.0},
		{"Austin, TX", "austin, texas", 1.0},
		{"Austin, TX 78701", "Austin, TX", 1.0},
		{"Austin, TX", "Dallas, TX", 0.7},
		{"Remote", "Remote - US", 1.0},
		{"Austin, TX", "Seattle, WA", 0.0},
		{"Remote", "Austin, TX", 0.0},
		{"", "", 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.a+"|"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, LocationSimilarity(tc.a, tc.b))
		})
	}
}

func TestTextRatio(t *testing.T) {
	assert.Equal(t, 1.0, TextRatio("", ""))
	assert.Equal(t, 0.0, TextRatio("abc", ""))
	assert.Equal(t, 1.0, TextRatio("same text", "same text"))
	assert.InDelta(t, 0.75, TextRatio("abcd", "bcde"), 1e-9)
	assert.Equal(t, TextRatio("abcd", "bcde"), TextRatio("bcde", "abcd"))
}
