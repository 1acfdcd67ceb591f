package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

var schemaV1 = []string{
	`
CREATE TABLE IF NOT EXISTS jobs (
  job_id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL DEFAULT '',
  company_name TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  salary_min REAL,
  salary_max REAL,
  salary_currency TEXT NOT NULL DEFAULT '',
  posted_date TEXT NOT NULL DEFAULT '',
  application_url TEXT NOT NULL DEFAULT '',
  source_platform TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_verified_active TEXT,
  cluster_id TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '{}',
  repost TEXT NOT NULL DEFAULT '{}',
  updated_at TEXT NOT NULL
);`,
	`
CREATE TABLE IF NOT EXISTS job_sources (
  job_id TEXT NOT NULL,
  url TEXT NOT NULL,
  platform TEXT NOT NULL DEFAULT '',
  source_type TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '',
  salary_text TEXT NOT NULL DEFAULT '',
  location_text TEXT NOT NULL DEFAULT '',
  content_fingerprint TEXT NOT NULL DEFAULT '',
  discovered_at TEXT NOT NULL DEFAULT '',
  last_seen_at TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (job_id, url)
);`,
	`
CREATE TABLE IF NOT EXISTS monitoring_reports (
  report_id TEXT PRIMARY KEY,
  report_date TEXT NOT NULL,
  payload TEXT NOT NULL
);`,
	`
CREATE TABLE IF NOT EXISTS company_domains (
  company TEXT PRIMARY KEY,
  domain TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_active ON jobs(is_active, last_verified_active);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_date ON monitoring_reports(report_date);`,
	`CREATE INDEX IF NOT EXISTS idx_company_domains_domain ON company_domains(domain);`,
}

// Migrate brings the schema up to schemaVersion, tracked in PRAGMA
// user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	for _, stmt := range schemaV1 {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("schema v1: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}
