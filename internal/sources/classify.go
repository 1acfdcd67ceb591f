package sources

import (
	"strings"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/util"
)

// Applicant tracking systems host the employer's own listing.
var atsDomains = []string{
	"greenhouse.io",
	"lever.co",
	"myworkdayjobs.com",
	"workday.com",
	"smartrecruiters.com",
	"icims.com",
	"jobvite.com",
	"applytojob.com",
	"ashbyhq.com",
	"bamboohr.com",
	"workable.com",
}

// Aggregators republish listings they scraped or were syndicated.
var aggregatorDomains = []string{
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"ziprecruiter.com",
	"monster.com",
	"careerbuilder.com",
	"simplyhired.com",
	"builtin.com",
	"dice.com",
	"wellfound.com",
}

// Classify decides whether rawURL is the employer's own copy of a posting.
// careersDomain is the company's site ("acme.com"); it may be empty.
// Unrecognized hosts are secondary.
func Classify(rawURL, careersDomain string) domain.SourceType {
	host := util.Host(rawURL)
	if host == "" {
		return domain.SourceSecondary
	}
	if IsAggregator(rawURL) {
		return domain.SourceSecondary
	}
	for _, d := range atsDomains {
		if util.HostMatches(host, d) {
			return domain.SourcePrimary
		}
	}
	if careersDomain = strings.TrimSpace(careersDomain); careersDomain != "" {
		if util.HostMatches(host, util.Host("https://"+careersDomain)) {
			return domain.SourcePrimary
		}
	}
	return domain.SourceSecondary
}

// IsAggregator reports whether host belongs to a known job aggregator.
func IsAggregator(rawURL string) bool {
	host := util.Host(rawURL)
	for _, d := range aggregatorDomains {
		if util.HostMatches(host, d) {
			return true
		}
	}
	return false
}
