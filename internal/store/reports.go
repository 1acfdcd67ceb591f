package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobwatch-engine/internal/domain"
)

func (d *DB) SaveReport(ctx context.Context, r domain.MonitoringReport) error {
	if r.ReportID == "" {
		return errors.New("save report: empty report_id")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = d.Pool.ExecContext(ctx, `
INSERT INTO monitoring_reports (report_id, report_date, payload)
VALUES (?,?,?)
ON CONFLICT(report_id) DO UPDATE SET
  report_date = excluded.report_date,
  payload = excluded.payload;`,
		r.ReportID, formatTime(r.ReportDate), string(b))
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.ReportID, err)
	}
	return nil
}

func (d *DB) LatestReport(ctx context.Context) (domain.MonitoringReport, error) {
	var payload string
	err := d.Pool.QueryRowContext(ctx, `
SELECT payload FROM monitoring_reports
ORDER BY report_date DESC, report_id DESC
LIMIT 1;`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MonitoringReport{}, fmt.Errorf("latest report: %w", ErrNotFound)
	}
	if err != nil {
		return domain.MonitoringReport{}, fmt.Errorf("latest report: %w", err)
	}
	return decodeReport(payload)
}

// ListReports returns the newest reports first.
func (d *DB) ListReports(ctx context.Context, limit int) ([]domain.MonitoringReport, error) {
	if limit <= 0 || limit > 500 {
		limit = 30
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT payload FROM monitoring_reports
ORDER BY report_date DESC, report_id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []domain.MonitoringReport{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		r, err := decodeReport(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func decodeReport(payload string) (domain.MonitoringReport, error) {
	var r domain.MonitoringReport
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return r, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
