package similarity

import (
	"regexp"
	"sort"
	"strings"

	"jobwatch-engine/internal/util"
)

var (
	yearsRe  = regexp.MustCompile(`(\d{1,2})\s*\+?\s*(?:-|to)?\s*(?:\d{1,2}\s*\+?\s*)?(?:years?|yrs?)`)
	degreeRe = regexp.MustCompile(`\b(bachelor|master|ph\.?\s?d|doctorate|mba|b\.s\.|b\.a\.|m\.s\.|associate'?s? degree)`)
	expRe    = regexp.MustCompile(`experience\s+(?:with|in|using|building)\s+([a-z0-9+#./ -]{2,60}?)(?:[,;:.\n()]|\s+and\s|\s+or\s|$)`)
)

var degreeCanon = map[string]string{
	"bachelor":  "bachelor",
	"b.s.":      "bachelor",
	"b.a.":      "bachelor",
	"master":    "master",
	"m.s.":      "master",
	"mba":       "mba",
	"doctorate": "doctorate",
}

// ExtractRequirementPhrases pulls the comparable facts out of a
// requirements blurb: years of experience, degree mentions and
// "experience with X" clauses.
func ExtractRequirementPhrases(text string) []string {
	low := strings.ToLower(util.CleanText(util.HTMLToText(text)))
	if low == "" {
		return nil
	}
	set := map[string]struct{}{}

	for _, m := range yearsRe.FindAllStringSubmatch(low, -1) {
		set["years:"+strings.TrimLeft(m[1], "0")] = struct{}{}
	}
	for _, m := range degreeRe.FindAllStringSubmatch(low, -1) {
		d := m[1]
		canon, ok := degreeCanon[d]
		switch {
		case ok:
		case strings.HasPrefix(d, "ph"):
			canon = "doctorate"
		case strings.HasPrefix(d, "associate"):
			canon = "associate"
		default:
			canon = d
		}
		set["degree:"+canon] = struct{}{}
	}
	for _, m := range expRe.FindAllStringSubmatch(low, -1) {
		if p := util.NormalizeText(m[1]); p != "" {
			set["exp:"+p] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Jaccard over two phrase sets; ok is false when both are empty and the
// caller needs another signal.
func Jaccard(a, b []string) (score float64, ok bool) {
	if len(a) == 0 && len(b) == 0 {
		return 0, false
	}
	sa := make(map[string]struct{}, len(a))
	for _, x := range a {
		sa[x] = struct{}{}
	}
	union := len(sa)
	inter := 0
	seen := map[string]struct{}{}
	for _, x := range b {
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		if _, hit := sa[x]; hit {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0, false
	}
	return float64(inter) / float64(union), true
}
