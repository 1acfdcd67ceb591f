package util

import (
	"regexp"
	"strings"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// abbreviation -> canonical word, applied per token after lowercasing
var synonyms = map[string]string{
	"sr":        "senior",
	"snr":       "senior",
	"jr":        "junior",
	"jnr":       "junior",
	"mgr":       "manager",
	"mngr":      "manager",
	"eng":       "engineer",
	"engr":      "engineer",
	"dev":       "developer",
	"swe":       "software engineer",
	"sde":       "software development engineer",
	"assoc":     "associate",
	"asst":      "assistant",
	"admin":     "administrator",
	"dir":       "director",
	"vp":        "vice president",
	"ops":       "operations",
	"qa":        "quality assurance",
	"ml":        "machine learning",
	"ai":        "artificial intelligence",
	"fullstack": "full stack",
	"ii":        "2",
	"iii":       "3",
}

var tokenRe = regexp.MustCompile(`[a-z0-9+#]+`)

// NormalizeText lowercases, strips punctuation, collapses whitespace and
// expands common job-title abbreviations so "Sr. Dev" == "senior developer".
func NormalizeText(s string) string {
	s = strings.ToLower(CleanText(s))
	if s == "" {
		return ""
	}
	toks := tokenRe.FindAllString(s, -1)
	for i, t := range toks {
		if full, ok := synonyms[t]; ok {
			toks[i] = full
		}
	}
	return strings.Join(toks, " ")
}

// Location is a parsed "City, ST" style location.
type Location struct {
	City   string
	State  string
	Remote bool
}

var usStates = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct", "delaware": "de",
	"florida": "fl", "georgia": "ga", "hawaii": "hi", "idaho": "id",
	"illinois": "il", "indiana": "in", "iowa": "ia", "kansas": "ks",
	"kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms",
	"missouri": "mo", "montana": "mt", "nebraska": "ne", "nevada": "nv",
	"new hampshire": "nh", "new jersey": "nj", "new mexico": "nm", "new york": "ny",
	"north carolina": "nc", "north dakota": "nd", "ohio": "oh", "oklahoma": "ok",
	"oregon": "or", "pennsylvania": "pa", "rhode island": "ri", "south carolina": "sc",
	"south dakota": "sd", "tennessee": "tn", "texas": "tx", "utah": "ut",
	"vermont": "vt", "virginia": "va", "washington": "wa", "west virginia": "wv",
	"wisconsin": "wi", "wyoming": "wy", "district of columbia": "dc",
}

// ParseLocation splits a free-form location into city and state. State
// names are folded to their two-letter code.
func ParseLocation(loc string) Location {
	loc = strings.ToLower(NormalizeLocation(loc))
	var out Location
	if loc == "" {
		return out
	}
	if strings.Contains(loc, "remote") || strings.Contains(loc, "anywhere") {
		out.Remote = true
	}

	parts := strings.Split(loc, ",")
	for i := range parts {
		parts[i] = CleanText(strings.Trim(parts[i], " ()"))
	}
	if out.Remote && len(parts) == 1 {
		return out
	}

	out.City = strings.TrimSpace(strings.TrimPrefix(parts[0], "remote -"))
	if len(parts) > 1 {
		st := parts[1]
		// drop trailing zip codes: "tx 75201"
		if f := strings.Fields(st); len(f) > 1 && isDigits(f[len(f)-1]) {
			st = strings.Join(f[:len(f)-1], " ")
		}
		if code, ok := usStates[st]; ok {
			st = code
		}
		out.State = st
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}
