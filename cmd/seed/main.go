// Command seed loads citizen event reports from a CSV file into the
// configured report store. The file must have a header row naming the
// columns event_type, severity, observed_at, location, description,
// contact_name, and contact_email; the contact columns are optional.
//
// Usage:
//
//	go run ./cmd/seed -csv data/reports.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/mysql"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/reportstore"
	"github.com/couchcryptid/coastal-erosion-api/internal/config"
	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
	"github.com/joho/godotenv"
)

var requiredColumns = []string{"event_type", "severity", "observed_at", "location", "description"}

var observedLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

type saver interface {
	Save(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the event report CSV file")
	dryRun := flag.Bool("dry-run", false, "validate rows without saving")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return errors.New("missing required flag: -csv")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reqs, err := parseReports(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", *csvPath, err)
	}
	log.Printf("%s: %d rows", *csvPath, len(reqs))
	if *dryRun {
		return nil
	}

	var store saver
	if cfg.ReportStore == config.ReportStoreMemory {
		log.Printf("REPORT_STORE=memory: reports will not outlive this process")
		store = reportstore.NewMemoryStore()
	} else {
		db, err := mysql.Open(mysql.PoolConfig{
			DSN:             cfg.DatabaseDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		store = reportstore.NewSQLStore(db, logger)
	}

	saved, err := seed(context.Background(), store, reqs)
	log.Printf("saved %d of %d reports", saved, len(reqs))
	return err
}

// seed saves each request in order and stops at the first failure.
func seed(ctx context.Context, store saver, reqs []domain.EventReportRequest) (int, error) {
	for i, req := range reqs {
		if _, err := store.Save(ctx, req); err != nil {
			return i, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(reqs), nil
}

// parseReports reads and validates every row. Row numbers in errors count the
// header as row 1.
func parseReports(r io.Reader) ([]domain.EventReportRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	validator := domain.NewValidator()
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var reqs []domain.EventReportRequest //nolint:prealloc // size depends on CSV file contents
	for row := 2; ; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		observed, err := parseObserved(field(rec, "observed_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		req := domain.EventReportRequest{
			EventType:    field(rec, "event_type"),
			Severity:     field(rec, "severity"),
			ObservedAt:   observed,
			LocationText: field(rec, "location"),
			Description:  field(rec, "description"),
			ContactName:  optional(field(rec, "contact_name")),
			ContactEmail: optional(field(rec, "contact_email")),
		}
		if err := validator.ValidateReport(req); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func parseObserved(s string) (time.Time, error) {
	for _, layout := range observedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid observed_at %q", s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
