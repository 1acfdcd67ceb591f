package domain

import "time"

type QualityRating string

const (
	QualityExcellent QualityRating = "excellent"
	QualityGood      QualityRating = "good"
	QualityFair      QualityRating = "fair"
	QualityPoor      QualityRating = "poor"
	QualityAvoid     QualityRating = "avoid"
)

// Red flag names.
const (
	FlagHighRepostRate         = "high_repost_rate"
	FlagFrequentReposts        = "frequent_reposts"
	FlagMultipleRepostClusters = "multiple_repost_clusters"
	FlagRapidReposts           = "rapid_reposts"
)

// RepostCluster is built fresh each analysis run and never persisted on
// its own; membership is written back onto the member JobRecords.
type RepostCluster struct {
	ClusterID     string    `json:"cluster_id"`
	CompanyID     string    `json:"company_id"`
	OriginalJobID string    `json:"original_job_id"`
	RepostJobIDs  []string  `json:"repost_job_ids"`
	OriginalDate  time.Time `json:"original_date"`
	LastRepostAt  time.Time `json:"last_repost_at"`

	PostingFrequencyDays float64 `json:"posting_frequency_days"`
	// MinGapDays is the shortest gap between consecutive dated members.
	// Only meaningful when DataQualityGap is false.
	MinGapDays float64 `json:"min_gap_days"`
	// ClusterScore is left unclamped; it can exceed 1.0.
	ClusterScore float64 `json:"cluster_score"`
	// DataQualityGap marks clusters with a member lacking a posted date.
	DataQualityGap bool `json:"data_quality_gap"`
}

func (c RepostCluster) RepostCount() int { return len(c.RepostJobIDs) }

// Members returns original followed by reposts in posting order.
func (c RepostCluster) Members() []string {
	out := make([]string, 0, len(c.RepostJobIDs)+1)
	out = append(out, c.OriginalJobID)
	return append(out, c.RepostJobIDs...)
}

type CompanyRepostAnalytics struct {
	CompanyID            string          `json:"company_id"`
	CompanyName          string          `json:"company_name"`
	TotalJobsPosted      int             `json:"total_jobs_posted"`
	TotalRepostsDetected int             `json:"total_reposts_detected"`
	RepostRate           float64         `json:"repost_rate"`
	ClusterCount         int             `json:"cluster_count"`
	AvgRepostGapDays     float64         `json:"avg_repost_gap_days"`
	DysfunctionScore     float64         `json:"dysfunction_score"`
	RedFlags             []string        `json:"red_flags"`
	QualityRating        QualityRating   `json:"quality_rating"`
	Clusters             []RepostCluster `json:"clusters,omitempty"`
	AnalyzedAt           time.Time       `json:"analyzed_at"`
}

func (a CompanyRepostAnalytics) HasFlag(name string) bool {
	for _, f := range a.RedFlags {
		if f == name {
			return true
		}
	}
	return false
}
