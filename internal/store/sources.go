package store

import (
	"context"
	"fmt"

	"jobwatch-engine/internal/domain"
)

// SaveSources upserts by (job_id, url). discovered_at keeps its first value.
func (d *DB) SaveSources(ctx context.Context, srcs []domain.JobSource) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save sources: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range srcs {
		if s.JobID == "" || s.URL == "" {
			return fmt.Errorf("save sources: job_id and url required (job_id=%q url=%q)", s.JobID, s.URL)
		}
		discovered := s.DiscoveredAt
		if discovered.IsZero() {
			discovered = d.now()
		}
		seen := s.LastSeenAt
		if seen.IsZero() {
			seen = discovered
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO job_sources (job_id, url, platform, source_type, title, description, requirements,
  salary_text, location_text, content_fingerprint, discovered_at, last_seen_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(job_id, url) DO UPDATE SET
  platform = excluded.platform,
  source_type = excluded.source_type,
  title = excluded.title,
  description = excluded.description,
  requirements = excluded.requirements,
  salary_text = excluded.salary_text,
  location_text = excluded.location_text,
  content_fingerprint = excluded.content_fingerprint,
  last_seen_at = excluded.last_seen_at;`,
			s.JobID, s.URL, s.Platform, string(s.SourceType), s.Title, s.Description, s.Requirements,
			s.SalaryText, s.LocationText, s.ContentFingerprint, formatTime(discovered), formatTime(seen),
		)
		if err != nil {
			return fmt.Errorf("upsert source %s %s: %w", s.JobID, s.URL, err)
		}
	}
	return tx.Commit()
}

func (d *DB) LoadSources(ctx context.Context, jobID string) ([]domain.JobSource, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT job_id, url, platform, source_type, title, description, requirements,
  salary_text, location_text, content_fingerprint, discovered_at, last_seen_at
FROM job_sources
WHERE job_id = ?
ORDER BY discovered_at, url;`, jobID)
	if err != nil {
		return nil, fmt.Errorf("load sources %s: %w", jobID, err)
	}
	defer rows.Close()

	var out []domain.JobSource
	for rows.Next() {
		var s domain.JobSource
		var typ, discovered, seen string
		if err := rows.Scan(&s.JobID, &s.URL, &s.Platform, &typ, &s.Title, &s.Description, &s.Requirements,
			&s.SalaryText, &s.LocationText, &s.ContentFingerprint, &discovered, &seen); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		s.SourceType = domain.SourceType(typ)
		s.DiscoveredAt = parseTime(discovered)
		s.LastSeenAt = parseTime(seen)
		out = append(out, s)
	}
	return out, rows.Err()
}
