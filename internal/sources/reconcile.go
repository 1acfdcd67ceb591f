package sources

import (
	"fmt"
	"io"
	"log"
	"sort"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/similarity"
)

// Thresholds for drift classification.
const (
	outdatedBelow         = 0.60
	poorSyncDescription   = 0.70
	poorSyncSentenceDiffs = 4
	fieldDiffBelow        = 0.90
)

// DeltaStatusFor buckets an overall source similarity.
func DeltaStatusFor(overall float64) domain.DeltaStatus {
	switch {
	case overall >= 0.98:
		return domain.DeltaIdentical
	case overall >= 0.90:
		return domain.DeltaMinorDifferences
	case overall >= 0.75:
		return domain.DeltaContentDrift
	case overall >= 0.50:
		return domain.DeltaMajorDiscrepancy
	default:
		return domain.DeltaOutdatedSecondary
	}
}

// Reconciliation is the result for one job.
type Reconciliation struct {
	JobID      string               `json:"job_id"`
	Sources    []domain.JobSource   `json:"sources"`
	Deltas     []domain.SourceDelta `json:"deltas"`
	HasPrimary bool                 `json:"has_primary"`
}

type Reconciler struct {
	logger *log.Logger
}

func NewReconciler(logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reconciler{logger: logger}
}

// Reconcile classifies every source of jobID and compares each secondary
// against each primary. Sources are returned with SourceType and
// ContentFingerprint filled in. Without a primary there is nothing to
// compare against and no deltas are produced.
func (r *Reconciler) Reconcile(jobID, careersDomain string, srcs []domain.JobSource) Reconciliation {
	out := Reconciliation{JobID: jobID, Sources: make([]domain.JobSource, 0, len(srcs))}
	var primaries, secondaries []domain.JobSource
	for _, s := range srcs {
		if s.JobID != "" && s.JobID != jobID {
			continue
		}
		s.JobID = jobID
		s.SourceType = Classify(s.URL, careersDomain)
		s.ContentFingerprint = SourceFingerprint(s)
		out.Sources = append(out.Sources, s)
		if s.SourceType == domain.SourcePrimary {
			primaries = append(primaries, s)
		} else {
			secondaries = append(secondaries, s)
		}
	}
	out.HasPrimary = len(primaries) > 0
	if !out.HasPrimary {
		if len(secondaries) > 0 {
			r.logger.Printf("[sources] job_id=%s no primary source among %d", jobID, len(secondaries))
		}
		return out
	}

	for _, p := range primaries {
		for _, s := range secondaries {
			d := Compare(p, s)
			r.logger.Printf("[sources] job_id=%s secondary=%s status=%s overall=%.4f", jobID, s.URL, d.DeltaStatus, d.OverallSimilarity)
			out.Deltas = append(out.Deltas, d)
		}
	}
	return out
}

// Compare computes the delta of secondary against primary. Matching
// fingerprints short-circuit to identical.
func Compare(primary, secondary domain.JobSource) domain.SourceDelta {
	d := domain.SourceDelta{
		JobID:             primary.JobID,
		PrimaryURL:        primary.URL,
		SecondaryURL:      secondary.URL,
		SecondaryPlatform: secondary.Platform,
	}

	fp, fs := primary.ContentFingerprint, secondary.ContentFingerprint
	if fp == "" {
		fp = SourceFingerprint(primary)
	}
	if fs == "" {
		fs = SourceFingerprint(secondary)
	}
	if fp == fs {
		d.FieldSimilarities = similarity.FieldScores{
			Title: 1, Description: 1, Requirements: 1, Location: 1, Salary: 1,
		}.Map()
		d.OverallSimilarity = 1.0
		d.DeltaStatus = domain.DeltaIdentical
		return d
	}

	res := similarity.CompareSources(text(primary), text(secondary))
	d.FieldSimilarities = res.Fields.Map()
	d.OverallSimilarity = res.Overall
	d.DeltaStatus = DeltaStatusFor(res.Overall)

	onlyP, onlyS := SentenceDiff(primary.Description, secondary.Description)
	d.PrimaryUniqueSentences = len(onlyP)
	d.SecondaryUniqueSentences = len(onlyS)
	d.Differences = differences(d)

	d.IndicatesOutdatedSecondary = d.DeltaStatus == domain.DeltaOutdatedSecondary || res.Overall < outdatedBelow
	d.IndicatesPoorSync = res.Fields.Description < poorSyncDescription ||
		len(onlyP)+len(onlyS) >= poorSyncSentenceDiffs
	return d
}

func text(s domain.JobSource) similarity.SourceText {
	return similarity.SourceText{
		Title:        s.Title,
		Description:  s.Description,
		Requirements: s.Requirements,
		SalaryText:   s.SalaryText,
		LocationText: s.LocationText,
	}
}

func differences(d domain.SourceDelta) []string {
	var out []string
	if d.PrimaryUniqueSentences > 0 {
		out = append(out, fmt.Sprintf("primary has %d unique sentences", d.PrimaryUniqueSentences))
	}
	if d.SecondaryUniqueSentences > 0 {
		out = append(out, fmt.Sprintf("secondary has %d unique sentences", d.SecondaryUniqueSentences))
	}
	fields := make([]string, 0, len(d.FieldSimilarities))
	for f, v := range d.FieldSimilarities {
		if v < fieldDiffBelow {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	for _, f := range fields {
		out = append(out, fmt.Sprintf("%s similarity %.2f", f, d.FieldSimilarities[f]))
	}
	return out
}

// Tally folds one job's reconciliation into a report section.
func Tally(sum *domain.SourceSummary, rec Reconciliation) {
	if sum.StatusHistogram == nil {
		sum.StatusHistogram = map[string]int{}
	}
	if len(rec.Sources) == 0 {
		return
	}
	sum.JobsReconciled++
	if !rec.HasPrimary {
		sum.JobsWithoutPrimary++
		return
	}
	for _, d := range rec.Deltas {
		sum.Deltas++
		sum.StatusHistogram[string(d.DeltaStatus)]++
		if d.IndicatesOutdatedSecondary {
			sum.OutdatedSecondaries++
		}
		if d.IndicatesPoorSync {
			sum.PoorSync++
		}
	}
}
