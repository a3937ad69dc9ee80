package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
)

const insertReport = `INSERT INTO event_reports
	(event_type, severity, observed_at, location_text, description, contact_name, contact_email, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectReports = `SELECT id, event_type, severity, observed_at, location_text, description,
	contact_name, contact_email, created_at
	FROM event_reports
	ORDER BY observed_at DESC, id DESC
	LIMIT ?`

// SQLStore keeps reports in the event_reports table. It works with any
// database/sql driver that accepts "?" placeholders and LastInsertId.
type SQLStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLStore creates a store over db. The schema comes from the migrations package.
func NewSQLStore(db *sql.DB, logger *slog.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// Save inserts the report and returns it with its assigned id and creation time.
func (s *SQLStore) Save(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error) {
	req.ObservedAt = storedTime(req.ObservedAt)
	report := domain.EventReport{EventReportRequest: req, CreatedAt: createdAt()}

	res, err := s.db.ExecContext(ctx, insertReport,
		req.EventType,
		req.Severity,
		req.ObservedAt,
		req.LocationText,
		req.Description,
		nullString(req.ContactName),
		nullString(req.ContactEmail),
		report.CreatedAt,
	)
	if err != nil {
		return domain.EventReport{}, domain.PersistenceError("insert event report", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.EventReport{}, domain.PersistenceError("read event report id", err)
	}
	report.ID = id
	s.logger.Debug("event report stored", "report_id", id)
	return report, nil
}

// List returns up to max reports, most recently observed first. A max of
// zero or less uses domain.DefaultReportLimit.
func (s *SQLStore) List(ctx context.Context, max int) ([]domain.EventReport, error) {
	rows, err := s.db.QueryContext(ctx, selectReports, limit(max))
	if err != nil {
		return nil, domain.PersistenceError("list event reports", err)
	}
	defer rows.Close()

	reports := make([]domain.EventReport, 0)
	for rows.Next() {
		var (
			r            domain.EventReport
			contactName  sql.NullString
			contactEmail sql.NullString
		)
		if err := rows.Scan(
			&r.ID,
			&r.EventType,
			&r.Severity,
			&r.ObservedAt,
			&r.LocationText,
			&r.Description,
			&contactName,
			&contactEmail,
			&r.CreatedAt,
		); err != nil {
			return nil, domain.PersistenceError("scan event report", err)
		}
		r.ContactName = stringPtr(contactName)
		r.ContactEmail = stringPtr(contactEmail)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError("list event reports", err)
	}
	s.logger.Debug("event reports listed", "count", len(reports))
	return reports, nil
}

// CheckReadiness pings the report database.
func (s *SQLStore) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("report store: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
