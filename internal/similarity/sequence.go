package similarity

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Long descriptions are compared on their leading runes only; matching is
// quadratic in the worst case.
const maxSequenceRunes = 4000

func runeSeq(s string) []string {
	rs := []rune(s)
	if len(rs) > maxSequenceRunes {
		rs = rs[:maxSequenceRunes]
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func matcher(a, b string) *difflib.SequenceMatcher {
	// canonical argument order keeps the ratio symmetric
	if b < a {
		a, b = b, a
	}
	return difflib.NewMatcherWithJunk(runeSeq(a), runeSeq(b), false, nil)
}

// TextRatio is the longest-matching-blocks ratio 2*M/T over the runes of
// two already-normalized strings. Two empty strings are identical.
func TextRatio(a, b string) float64 {
	switch {
	case a == b:
		return 1.0
	case a == "" || b == "":
		return 0.0
	}
	return matcher(a, b).Ratio()
}

// textRatioBound is a cheap upper bound on TextRatio.
func textRatioBound(a, b string) float64 {
	switch {
	case a == b:
		return 1.0
	case a == "" || b == "":
		return 0.0
	}
	return matcher(a, b).QuickRatio()
}
