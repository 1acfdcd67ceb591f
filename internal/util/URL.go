package util

import (
	"net/url"
	"sort"
	"strings"
)

func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	if strings.Contains(u.Host, "linkedin.com") {
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Host returns the lowercased hostname of raw without "www." or port.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	h := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(h, "www.")
}

// HostMatches reports whether host is domain or a subdomain of it.
func HostMatches(host, domain string) bool {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformIndeed          Platform = "indeed"
	PlatformLinkedIn        Platform = "linkedin"
	PlatformWorkday         Platform = "workday"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformGeneric         Platform = "generic"
)

var platformHosts = []struct {
	domain   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"indeed.com", PlatformIndeed},
	{"linkedin.com", PlatformLinkedIn},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"smartrecruiters.com", PlatformSmartRecruiters},
}

// DetectPlatform maps a posting URL to a known job board, falling back to
// the declared source platform and then to generic.
func DetectPlatform(rawURL, declared string) Platform {
	host := Host(rawURL)
	for _, ph := range platformHosts {
		if HostMatches(host, ph.domain) {
			return ph.platform
		}
	}
	d := Platform(strings.ToLower(strings.TrimSpace(declared)))
	for _, ph := range platformHosts {
		if d == ph.platform {
			return d
		}
	}
	return PlatformGeneric
}
