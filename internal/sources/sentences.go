package sources

import (
	"regexp"
	"sort"

	"jobwatch-engine/internal/util"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)

// Sentences splits text on terminators and returns the distinct
// normalized sentences.
func Sentences(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, part := range sentenceEnd.Split(util.HTMLToText(text), -1) {
		if s := util.NormalizeText(part); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}

// SentenceDiff returns the sentences only a has and the ones only b has,
// both sorted.
func SentenceDiff(a, b string) (onlyA, onlyB []string) {
	sa, sb := Sentences(a), Sentences(b)
	for s := range sa {
		if _, ok := sb[s]; !ok {
			onlyA = append(onlyA, s)
		}
	}
	for s := range sb {
		if _, ok := sa[s]; !ok {
			onlyB = append(onlyB, s)
		}
	}
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return onlyA, onlyB
}
