package repost

import (
	"time"

	"jobwatch-engine/internal/domain"
)

// Thresholds drive the dysfunction score. Each condition that holds adds
// its weight and the matching red flag.
type Thresholds struct {
	HighRepostRate    float64 // repost_rate above this
	FrequentGapDays   float64 // average gap inside (0, this)
	MaxClusters       int     // more clusters than this
	RapidGapDays      float64 // any single gap below this
	HighRepostWeight  float64
	FrequentWeight    float64
	MultipleWeight    float64
	RapidRepostWeight float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighRepostRate:    0.30,
		FrequentGapDays:   30,
		MaxClusters:       5,
		RapidGapDays:      14,
		HighRepostWeight:  0.4,
		FrequentWeight:    0.3,
		MultipleWeight:    0.2,
		RapidRepostWeight: 0.1,
	}
}

// RatingFor buckets a dysfunction score into a user-facing label.
func RatingFor(score float64) domain.QualityRating {
	switch {
	case score >= 0.70:
		return domain.QualityAvoid
	case score >= 0.50:
		return domain.QualityPoor
	case score >= 0.30:
		return domain.QualityFair
	case score >= 0.10:
		return domain.QualityGood
	default:
		return domain.QualityExcellent
	}
}

type Aggregator struct {
	clusterer *Clusterer
	th        Thresholds
	now       func() time.Time
}

func NewAggregator(clusterer *Clusterer, th Thresholds, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{clusterer: clusterer, th: th, now: now}
}

// Analyze clusters a company's jobs and rolls the clusters up into
// analytics. jobs must all belong to companyID.
func (a *Aggregator) Analyze(companyID string, jobs []domain.JobRecord) (domain.CompanyRepostAnalytics, Analysis) {
	an := a.clusterer.Cluster(companyID, jobs)
	name := ""
	for _, j := range jobs {
		if j.CompanyName != "" {
			name = j.CompanyName
			break
		}
	}
	out := a.Summarize(companyID, name, len(jobs), an.Clusters)
	return out, an
}

// Summarize scores a company from its cluster set.
func (a *Aggregator) Summarize(companyID, companyName string, totalJobs int, clusters []domain.RepostCluster) domain.CompanyRepostAnalytics {
	out := domain.CompanyRepostAnalytics{
		CompanyID:       companyID,
		CompanyName:     companyName,
		TotalJobsPosted: totalJobs,
		ClusterCount:    len(clusters),
		Clusters:        clusters,
		RedFlags:        []string{},
		AnalyzedAt:      a.now().UTC(),
	}

	var gapSum float64
	var gapN int
	rapid := false
	for _, c := range clusters {
		out.TotalRepostsDetected += c.RepostCount()
		if c.DataQualityGap {
			continue
		}
		gapSum += c.PostingFrequencyDays
		gapN++
		if c.MinGapDays < a.th.RapidGapDays {
			rapid = true
		}
	}
	if totalJobs > 0 {
		out.RepostRate = float64(out.TotalRepostsDetected) / float64(totalJobs)
		if out.RepostRate > 1 {
			out.RepostRate = 1
		}
	}
	if gapN > 0 {
		out.AvgRepostGapDays = gapSum / float64(gapN)
	}

	flag := func(name string, weight float64) {
		out.DysfunctionScore += weight
		out.RedFlags = append(out.RedFlags, name)
	}
	if out.RepostRate > a.th.HighRepostRate {
		flag(domain.FlagHighRepostRate, a.th.HighRepostWeight)
	}
	if out.AvgRepostGapDays > 0 && out.AvgRepostGapDays < a.th.FrequentGapDays {
		flag(domain.FlagFrequentReposts, a.th.FrequentWeight)
	}
	if len(clusters) > a.th.MaxClusters {
		flag(domain.FlagMultipleRepostClusters, a.th.MultipleWeight)
	}
	if rapid {
		flag(domain.FlagRapidReposts, a.th.RapidRepostWeight)
	}

	out.QualityRating = RatingFor(out.DysfunctionScore)
	return out
}
