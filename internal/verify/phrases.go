package verify

import (
	"strings"

	"jobwatch-engine/internal/util"
)

// Board-specific closure wording. Every board also gets genericPhrases.
var closurePhrases = map[util.Platform][]string{
	util.PlatformGreenhouse: {
		"the job you are looking for is no longer open",
		"this job is no longer open",
		"job not found",
	},
	util.PlatformLever: {
		"this posting is closed",
		"sorry, we couldn't find anything here",
		"the job posting you're looking for might have closed",
	},
	util.PlatformIndeed: {
		"this job has expired on indeed",
		"this job is no longer available",
		"the employer is not accepting applications",
	},
	util.PlatformLinkedIn: {
		"no longer accepting applications",
		"this job is no longer available",
		"job is closed",
	},
	util.PlatformWorkday: {
		"the job posting you are looking for is no longer available",
		"this job posting is no longer available",
	},
	util.PlatformSmartRecruiters: {
		"this job has expired",
		"sorry, this job is no longer available",
	},
}

var genericPhrases = []string{
	"no longer accepting",
	"position has been filled",
	"posting has expired",
	"job has expired",
	"no longer available",
	"position is no longer open",
	"this position is closed",
	"applications are closed",
	"this role has been filled",
}

// ClosurePhrases returns the phrases checked for platform, board-specific
// first.
func ClosurePhrases(p util.Platform) []string {
	specific := closurePhrases[p]
	out := make([]string, 0, len(specific)+len(genericPhrases))
	out = append(out, specific...)
	return append(out, genericPhrases...)
}

// MatchClosure scans visible page text for a closure phrase.
func MatchClosure(p util.Platform, text string) (string, bool) {
	low := strings.ToLower(strings.Join(strings.Fields(text), " "))
	low = strings.ReplaceAll(low, "’", "'")
	for _, phrase := range ClosurePhrases(p) {
		if strings.Contains(low, phrase) {
			return phrase, true
		}
	}
	return "", false
}
