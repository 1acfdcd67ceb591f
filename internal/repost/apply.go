package repost

import "jobwatch-engine/internal/domain"

// Apply writes cluster membership back onto jobs in place. Repost fields
// from earlier runs are cleared first; clusters are rebuilt every run.
func Apply(jobs []domain.JobRecord, an Analysis) {
	type slot struct {
		cluster *domain.RepostCluster
		seq     int
	}
	idx := map[string]slot{}
	for i := range an.Clusters {
		cl := &an.Clusters[i]
		idx[cl.OriginalJobID] = slot{cluster: cl}
		for n, id := range cl.RepostJobIDs {
			idx[id] = slot{cluster: cl, seq: n + 1}
		}
	}

	for i := range jobs {
		j := &jobs[i]
		j.Repost = domain.RepostDetection{}
		s, ok := idx[j.JobID]
		if !ok {
			continue
		}
		j.Repost.ClusterID = s.cluster.ClusterID
		if s.seq == 0 {
			continue
		}
		j.Repost.IsRepost = true
		j.Repost.OriginalJobID = s.cluster.OriginalJobID
		j.Repost.RepostSequenceNumber = s.seq
		if m, ok := an.Matches[j.JobID]; ok {
			j.Repost.FieldScores = m.Fields.Map()
			j.Repost.OverallSimilarityScore = m.Overall
		}
	}
}
