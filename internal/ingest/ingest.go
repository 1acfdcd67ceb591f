// Package ingest loads postings found by external discovery channels into
// the job store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/store"
	"jobwatch-engine/internal/util"
)

// Batch is the import file format.
type Batch struct {
	Jobs    []domain.JobRecord `json:"jobs"`
	Sources []domain.JobSource `json:"sources"`
	// CompanyDomains maps company id or name to its careers domain.
	CompanyDomains map[string]string `json:"company_domains"`
}

type Store interface {
	GetJob(ctx context.Context, jobID string) (domain.JobRecord, error)
	UpsertJob(ctx context.Context, j domain.JobRecord) error
	SaveSources(ctx context.Context, srcs []domain.JobSource) error
	UpsertCompanyDomain(ctx context.Context, company, dom string) error
}

type Result struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Sources int `json:"sources"`
	Domains int `json:"domains"`
}

func Decode(r io.Reader) (Batch, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var b Batch
	if err := dec.Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("decode import batch: %w", err)
	}
	return b, nil
}

// Import writes a batch. URLs are canonicalized, so copies that differ only
// in tracking parameters collapse into one source. New jobs start active
// unless they carry a closed date. Known jobs get their posting content
// refreshed while lifecycle and repost state stay as stored.
func Import(ctx context.Context, st Store, b Batch, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	var res Result

	for company, dom := range b.CompanyDomains {
		if strings.TrimSpace(company) == "" || strings.TrimSpace(dom) == "" {
			continue
		}
		if err := st.UpsertCompanyDomain(ctx, company, dom); err != nil {
			return res, err
		}
		res.Domains++
	}

	for _, j := range b.Jobs {
		if why := missing(j); why != "" {
			logger.Printf("[ingest] skipped (%s) job_id=%q title=%q", why, j.JobID, j.Title)
			res.Skipped++
			continue
		}
		j.ApplicationURL = util.CanonicalizeURL(j.ApplicationURL)
		if j.SourcePlatform == "" && j.ApplicationURL != "" {
			j.SourcePlatform = string(util.DetectPlatform(j.ApplicationURL, ""))
		}

		stored, err := st.GetJob(ctx, j.JobID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if j.Status.ClosedDate == nil {
				j.Status.IsActive = true
			}
			res.Added++
		case err != nil:
			return res, err
		default:
			j.Status = stored.Status
			j.Repost = stored.Repost
			res.Updated++
		}
		if err := st.UpsertJob(ctx, j); err != nil {
			return res, err
		}
	}

	srcs := make([]domain.JobSource, 0, len(b.Sources))
	seen := map[string]bool{}
	for _, s := range b.Sources {
		s.URL = util.CanonicalizeURL(s.URL)
		if s.JobID == "" || s.URL == "" {
			logger.Printf("[ingest] skipped source (missing job_id or url) url=%q", s.URL)
			res.Skipped++
			continue
		}
		key := s.JobID + "\x00" + s.URL
		if seen[key] {
			continue
		}
		seen[key] = true
		if s.Platform == "" {
			s.Platform = string(util.DetectPlatform(s.URL, ""))
		}
		srcs = append(srcs, s)
	}
	if len(srcs) > 0 {
		if err := st.SaveSources(ctx, srcs); err != nil {
			return res, err
		}
		res.Sources = len(srcs)
	}

	logger.Printf("[ingest] added=%d updated=%d skipped=%d sources=%d domains=%d",
		res.Added, res.Updated, res.Skipped, res.Sources, res.Domains)
	return res, nil
}

func missing(j domain.JobRecord) string {
	switch {
	case strings.TrimSpace(j.JobID) == "":
		return "missing job_id"
	case strings.TrimSpace(j.CompanyID) == "":
		return "missing company_id"
	case strings.TrimSpace(j.Title) == "":
		return "missing title"
	}
	return ""
}
