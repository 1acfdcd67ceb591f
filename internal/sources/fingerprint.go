package sources

import (
	"strings"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/util"
)

// Fingerprint hashes the normalized title, description and requirements.
// Markup and whitespace differences do not change it.
func Fingerprint(title, description, requirements string) string {
	parts := []string{
		util.NormalizeText(title),
		util.NormalizeText(util.HTMLToText(description)),
		util.NormalizeText(util.HTMLToText(requirements)),
	}
	return util.HashString(strings.Join(parts, "\n"))
}

func SourceFingerprint(s domain.JobSource) string {
	return Fingerprint(s.Title, s.Description, s.Requirements)
}
