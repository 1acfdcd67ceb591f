package similarity

import "jobwatch-engine/internal/util"

// SourceText is the comparable content of one channel's copy of a posting.
type SourceText struct {
	Title        string
	Description  string
	Requirements string
	SalaryText   string
	LocationText string
}

// CompareSources scores two copies of the same posting with the
// multi-source weighting. Every field is compared as text.
func CompareSources(a, b SourceText) Result {
	ra, rb := util.NormalizeText(util.HTMLToText(a.Requirements)), util.NormalizeText(util.HTMLToText(b.Requirements))
	f := FieldScores{
		Title:        TextRatio(util.NormalizeText(a.Title), util.NormalizeText(b.Title)),
		Description:  TextRatio(util.NormalizeText(util.HTMLToText(a.Description)), util.NormalizeText(util.HTMLToText(b.Description))),
		Requirements: requirementSimilarity(ExtractRequirementPhrases(a.Requirements), ExtractRequirementPhrases(b.Requirements), ra, rb),
		Location:     TextRatio(util.NormalizeText(a.LocationText), util.NormalizeText(b.LocationText)),
		Salary:       TextRatio(util.NormalizeText(a.SalaryText), util.NormalizeText(b.SalaryText)),
	}
	overall := f.Weighted(SourceWeights)
	return Result{Overall: overall, Fields: f, Confidence: ConfidenceFor(overall)}
}
