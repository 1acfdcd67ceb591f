package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobwatch-engine/internal/domain"
)

const jobColumns = `job_id, company_id, company_name, title, description, requirements, location,
  salary_min, salary_max, salary_currency, posted_date, application_url, source_platform,
  status, repost`

// The WHERE clause keeps a stored closure from being overwritten by an
// active copy of the same record.
const upsertJobSQL = `
INSERT INTO jobs (job_id, company_id, company_name, title, description, requirements, location,
  salary_min, salary_max, salary_currency, posted_date, application_url, source_platform,
  is_active, last_verified_active, cluster_id, status, repost, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(job_id) DO UPDATE SET
  company_id = excluded.company_id,
  company_name = excluded.company_name,
  title = excluded.title,
  description = excluded.description,
  requirements = excluded.requirements,
  location = excluded.location,
  salary_min = excluded.salary_min,
  salary_max = excluded.salary_max,
  salary_currency = excluded.salary_currency,
  posted_date = excluded.posted_date,
  application_url = excluded.application_url,
  source_platform = excluded.source_platform,
  is_active = excluded.is_active,
  last_verified_active = excluded.last_verified_active,
  cluster_id = excluded.cluster_id,
  status = excluded.status,
  repost = excluded.repost,
  updated_at = excluded.updated_at
WHERE NOT (jobs.is_active = 0 AND excluded.is_active = 1);`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *DB) upsertJob(ctx context.Context, ex execer, j domain.JobRecord) error {
	if j.JobID == "" {
		return errors.New("upsert job: empty job_id")
	}
	statusB, err := json.Marshal(j.Status)
	if err != nil {
		return fmt.Errorf("encode status %s: %w", j.JobID, err)
	}
	repostB, err := json.Marshal(j.Repost)
	if err != nil {
		return fmt.Errorf("encode repost %s: %w", j.JobID, err)
	}

	var smin, smax any
	currency := ""
	if j.Salary != nil {
		smin, smax, currency = j.Salary.Min, j.Salary.Max, j.Salary.Currency
	}
	active := 0
	if j.Status.IsActive {
		active = 1
	}

	_, err = ex.ExecContext(ctx, upsertJobSQL,
		j.JobID, j.CompanyID, j.CompanyName, j.Title, j.Description, j.Requirements, j.Location,
		smin, smax, currency, formatTime(j.PostedDate), j.ApplicationURL, j.SourcePlatform,
		active, formatTimePtr(j.Status.LastVerifiedActive), j.Repost.ClusterID,
		string(statusB), string(repostB), formatTime(d.now()),
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", j.JobID, err)
	}
	return nil
}

func (d *DB) UpsertJob(ctx context.Context, j domain.JobRecord) error {
	return d.upsertJob(ctx, d.Pool, j)
}

// SaveJobs writes all records in one transaction.
func (d *DB) SaveJobs(ctx context.Context, jobs []domain.JobRecord) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range jobs {
		if err := d.upsertJob(ctx, tx, j); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save jobs commit: %w", err)
	}
	return nil
}

// LoadActiveJobs returns active jobs, least recently verified first.
// limit <= 0 means no limit.
func (d *DB) LoadActiveJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	return d.queryJobs(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE is_active = 1
ORDER BY last_verified_active IS NOT NULL, last_verified_active, job_id
LIMIT ?;`, limit)
}

// LoadJobsByCompany returns every job of the company, closed ones included.
func (d *DB) LoadJobsByCompany(ctx context.Context, companyID string) ([]domain.JobRecord, error) {
	return d.queryJobs(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE company_id = ?
ORDER BY posted_date, job_id;`, companyID)
}

func (d *DB) GetJob(ctx context.Context, jobID string) (domain.JobRecord, error) {
	jobs, err := d.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_id = ?;`, jobID)
	if err != nil {
		return domain.JobRecord{}, err
	}
	if len(jobs) == 0 {
		return domain.JobRecord{}, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return jobs[0], nil
}

func (d *DB) queryJobs(ctx context.Context, query string, args ...any) ([]domain.JobRecord, error) {
	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		var (
			j                  domain.JobRecord
			smin, smax         sql.NullFloat64
			currency, posted   string
			statusJSON, repost string
		)
		if err := rows.Scan(
			&j.JobID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.Requirements, &j.Location,
			&smin, &smax, &currency, &posted, &j.ApplicationURL, &j.SourcePlatform,
			&statusJSON, &repost,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if smin.Valid || smax.Valid {
			j.Salary = &domain.SalaryRange{Min: smin.Float64, Max: smax.Float64, Currency: currency}
		}
		j.PostedDate = parseTime(posted)
		if err := json.Unmarshal([]byte(statusJSON), &j.Status); err != nil {
			return nil, fmt.Errorf("decode status %s: %w", j.JobID, err)
		}
		if err := json.Unmarshal([]byte(repost), &j.Repost); err != nil {
			return nil, fmt.Errorf("decode repost %s: %w", j.JobID, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
