package repost

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/similarity"
)

const DefaultWindowDays = 180

// cluster ids are stable for the same (company, original) pair across runs
var clusterNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobwatch-engine/repost-cluster"))

// Analysis is the outcome of clustering one company's jobs.
type Analysis struct {
	CompanyID string
	Clusters  []domain.RepostCluster
	// Matches holds each repost's comparison against its cluster original.
	Matches map[string]similarity.Result
	// Considered counts jobs inside the rolling window.
	Considered int
}

type Clusterer struct {
	scorer *similarity.Scorer
	window time.Duration
	now    func() time.Time
}

func NewClusterer(scorer *similarity.Scorer, windowDays int, now func() time.Time) *Clusterer {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Clusterer{
		scorer: scorer,
		window: time.Duration(windowDays) * 24 * time.Hour,
		now:    now,
	}
}

// inWindow keeps undated jobs; they just cannot take part in gap math.
func (c *Clusterer) inWindow(j domain.JobRecord, now time.Time) bool {
	if j.PostedDate.IsZero() {
		return true
	}
	return now.Sub(j.PostedDate) <= c.window
}

// Cluster builds the similarity graph over every pair of in-window jobs and
// turns each connected component of two or more jobs into a RepostCluster.
func (c *Clusterer) Cluster(companyID string, jobs []domain.JobRecord) Analysis {
	now := c.now()
	out := Analysis{CompanyID: companyID, Matches: map[string]similarity.Result{}}

	var pool []domain.JobRecord
	seen := map[string]int{}
	for _, j := range jobs {
		if !c.inWindow(j, now) {
			continue
		}
		if i, dup := seen[j.JobID]; dup {
			pool[i] = j
			continue
		}
		seen[j.JobID] = len(pool)
		pool = append(pool, j)
	}
	out.Considered = len(pool)
	if len(pool) < 2 {
		return out
	}

	docs := make([]similarity.Doc, len(pool))
	for i, j := range pool {
		docs[i] = similarity.Prepare(j)
	}

	g := newGraph()
	edges := map[[2]int]similarity.Result{}
	for i := 0; i < len(docs); i++ {
		for k := i + 1; k < len(docs); k++ {
			if r, ok := c.scorer.CompareAtLeast(docs[i], docs[k]); ok {
				g.addEdge(i, k)
				edges[[2]int{i, k}] = r
			}
		}
	}

	for _, comp := range g.components() {
		if len(comp) < 2 {
			continue
		}
		members := orderByPosted(pool, comp)
		cl := buildCluster(companyID, pool, members)

		orig := members[0]
		for _, m := range members[1:] {
			key := [2]int{orig, m}
			if m < orig {
				key = [2]int{m, orig}
			}
			r, ok := edges[key]
			if !ok {
				r = c.scorer.Compare(docs[orig], docs[m])
			}
			out.Matches[pool[m].JobID] = r
		}
		out.Clusters = append(out.Clusters, cl)
	}

	sort.SliceStable(out.Clusters, func(a, b int) bool {
		return out.Clusters[a].OriginalJobID < out.Clusters[b].OriginalJobID
	})
	return out
}

// orderByPosted sorts member indexes by posted date ascending. Undated
// jobs go last; job id breaks ties.
func orderByPosted(pool []domain.JobRecord, comp []int) []int {
	members := append([]int(nil), comp...)
	sort.SliceStable(members, func(a, b int) bool {
		ja, jb := pool[members[a]], pool[members[b]]
		za, zb := ja.PostedDate.IsZero(), jb.PostedDate.IsZero()
		switch {
		case za != zb:
			return zb
		case !ja.PostedDate.Equal(jb.PostedDate):
			return ja.PostedDate.Before(jb.PostedDate)
		default:
			return ja.JobID < jb.JobID
		}
	})
	return members
}

func buildCluster(companyID string, pool []domain.JobRecord, members []int) domain.RepostCluster {
	orig := pool[members[0]]
	cl := domain.RepostCluster{
		ClusterID:     uuid.NewSHA1(clusterNamespace, []byte(companyID+"|"+orig.JobID)).String(),
		CompanyID:     companyID,
		OriginalJobID: orig.JobID,
		OriginalDate:  orig.PostedDate,
	}
	for _, m := range members[1:] {
		cl.RepostJobIDs = append(cl.RepostJobIDs, pool[m].JobID)
		if pool[m].PostedDate.IsZero() {
			cl.DataQualityGap = true
		}
	}
	if orig.PostedDate.IsZero() {
		cl.DataQualityGap = true
	}

	last := pool[members[len(members)-1]]
	cl.LastRepostAt = last.PostedDate

	n := cl.RepostCount()
	if !cl.DataQualityGap && n > 0 {
		cl.PostingFrequencyDays = days(last.PostedDate.Sub(orig.PostedDate)) / float64(n)
		cl.MinGapDays = math.Inf(1)
		for i := 1; i < len(members); i++ {
			gap := days(pool[members[i]].PostedDate.Sub(pool[members[i-1]].PostedDate))
			cl.MinGapDays = math.Min(cl.MinGapDays, gap)
		}
	}
	cl.ClusterScore = clusterScore(n, cl.PostingFrequencyDays)
	return cl
}

// clusterScore adds "many reposts" and "suspiciously fast reposts" as
// independent factors. The sum is not clamped.
func clusterScore(repostCount int, freqDays float64) float64 {
	score := math.Min(1.0, float64(repostCount)/5.0)
	if freqDays > 0 && freqDays < 30 {
		score += 0.3
	}
	return score
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}
