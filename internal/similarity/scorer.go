package similarity

import (
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/util"
)

// DefaultThreshold is the overall score at which two postings are treated
// as the same role reposted.
const DefaultThreshold = 0.75

// Field names used in score maps.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldRequirements = "requirements"
	FieldLocation     = "location"
	FieldSalary       = "salary"
)

type Weights struct {
	Title        float64
	Description  float64
	Requirements float64
	Location     float64
	Salary       float64
}

var (
	// RepostWeights compare two postings from the same company.
	RepostWeights = Weights{Title: 0.30, Description: 0.35, Requirements: 0.20, Location: 0.10, Salary: 0.05}
	// SourceWeights compare copies of one posting across channels.
	SourceWeights = Weights{Title: 0.20, Description: 0.40, Requirements: 0.30, Location: 0.05, Salary: 0.05}
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func ConfidenceFor(overall float64) Confidence {
	switch {
	case overall >= 0.90:
		return ConfidenceHigh
	case overall >= 0.75:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

type FieldScores struct {
	Title        float64
	Description  float64
	Requirements float64
	Location     float64
	Salary       float64
}

func (f FieldScores) Weighted(w Weights) float64 {
	return round4(f.Title*w.Title +
		f.Description*w.Description +
		f.Requirements*w.Requirements +
		f.Location*w.Location +
		f.Salary*w.Salary)
}

func (f FieldScores) Map() map[string]float64 {
	return map[string]float64{
		FieldTitle:        round4(f.Title),
		FieldDescription:  round4(f.Description),
		FieldRequirements: round4(f.Requirements),
		FieldLocation:     round4(f.Location),
		FieldSalary:       round4(f.Salary),
	}
}

type Result struct {
	Overall    float64
	Fields     FieldScores
	Confidence Confidence
}

// Doc is a JobRecord normalized once so it can be compared many times.
type Doc struct {
	JobID        string
	Title        string
	Description  string
	Requirements string
	Phrases      []string
	LocationRaw  string
	Location     util.Location
	Salary       *domain.SalaryRange
}

func Prepare(j domain.JobRecord) Doc {
	return Doc{
		JobID:        j.JobID,
		Title:        util.NormalizeText(j.Title),
		Description:  util.NormalizeText(util.HTMLToText(j.Description)),
		Requirements: util.NormalizeText(util.HTMLToText(j.Requirements)),
		Phrases:      ExtractRequirementPhrases(j.Requirements),
		LocationRaw:  util.NormalizeText(j.Location),
		Location:     util.ParseLocation(j.Location),
		Salary:       j.Salary,
	}
}

type Scorer struct {
	threshold float64
}

func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Scorer{threshold: threshold}
}

func (s *Scorer) Threshold() float64 { return s.threshold }

// Similarity compares two postings with the repost weighting.
func (s *Scorer) Similarity(a, b domain.JobRecord) Result {
	return s.Compare(Prepare(a), Prepare(b))
}

// IsLikelyRepost applies the configured threshold.
func (s *Scorer) IsLikelyRepost(r Result) bool { return r.Overall >= s.threshold }

func (s *Scorer) Compare(a, b Doc) Result {
	f := FieldScores{
		Title:        TextRatio(a.Title, b.Title),
		Description:  TextRatio(a.Description, b.Description),
		Requirements: requirementSimilarity(a.Phrases, b.Phrases, a.Requirements, b.Requirements),
		Location:     docLocation(a, b),
		Salary:       SalarySimilarity(a.Salary, b.Salary),
	}
	overall := f.Weighted(RepostWeights)
	return Result{Overall: overall, Fields: f, Confidence: ConfidenceFor(overall)}
}

// CompareAtLeast returns the full comparison only when it can reach the
// threshold. Cheap fields and upper bounds on the text ratios are checked
// first so most unrelated pairs skip the expensive matching.
func (s *Scorer) CompareAtLeast(a, b Doc) (Result, bool) {
	w := RepostWeights
	cheap := docLocation(a, b)*w.Location + SalarySimilarity(a.Salary, b.Salary)*w.Salary
	req := requirementSimilarity(a.Phrases, b.Phrases, a.Requirements, b.Requirements)
	bound := cheap + req*w.Requirements +
		textRatioBound(a.Title, b.Title)*w.Title +
		textRatioBound(a.Description, b.Description)*w.Description
	if round4(bound) < s.threshold {
		return Result{}, false
	}
	r := s.Compare(a, b)
	return r, s.IsLikelyRepost(r)
}

func docLocation(a, b Doc) float64 {
	if a.LocationRaw == b.LocationRaw {
		return locExact
	}
	return parsedLocationSimilarity(a.Location, b.Location)
}
