// Package service implements the Coasty request operations: it validates each
// request, applies parameter defaults, and dispatches to the stored-procedure
// gateway, the news provider, or the event report store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
)

// Stored procedure names.
const (
	ProcWaterLevels = "GetVerifiedWaterLevels"
	ProcRisks       = "GetRisks"
)

// ProcedureInvoker runs named stored procedures.
type ProcedureInvoker interface {
	InvokeProcedure(ctx context.Context, name string, params ...domain.Param) ([]domain.Row, error)
	Ping(ctx context.Context) error
}

// NewsSearcher queries the external news provider.
type NewsSearcher interface {
	Search(ctx context.Context, q domain.NewsQuery) (domain.NewsResult, error)
}

// ReportStore persists event reports.
type ReportStore interface {
	Save(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error)
	List(ctx context.Context, max int) ([]domain.EventReport, error)
	CheckReadiness(ctx context.Context) error
}

// ReportPublisher announces stored reports to downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report domain.EventReport) error
}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	procs     ProcedureInvoker
	news      NewsSearcher
	reports   ReportStore
	publisher ReportPublisher
	validator *domain.Validator
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Service. publisher may be nil, which disables report publication.
func New(procs ProcedureInvoker, news NewsSearcher, reports ReportStore, publisher ReportPublisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		procs:     procs,
		news:      news,
		reports:   reports,
		publisher: publisher,
		validator: domain.NewValidator(),
		metrics:   metrics,
		logger:    logger,
	}
}

// NameEcho returns the user's name, or "No Name Given" when it is null.
func (s *Service) NameEcho(user domain.User) string {
	if user.Name == nil {
		return domain.NoNameGiven
	}
	return *user.Name
}

// AvgWaterLevels returns aggregated water-level rows. Empty dates are sent as
// NULL; an empty period defaults to "day".
func (s *Service) AvgWaterLevels(ctx context.Context, q domain.WaterLevelQuery) ([]domain.Row, error) {
	period := q.Period
	if period == "" {
		period = domain.DefaultPeriod
	}
	return s.procs.InvokeProcedure(ctx, ProcWaterLevels,
		domain.Param{Name: "p_time_period", Value: period},
		domain.Param{Name: "p_city", Value: q.City},
		domain.Param{Name: "p_state", Value: q.State},
		domain.Param{Name: "p_start_date", Value: domain.NullIfEmpty(q.StartDate)},
		domain.Param{Name: "p_end_date", Value: domain.NullIfEmpty(q.EndDate)},
	)
}

// Risks returns predicted risk rows for a city and year. Years that are not a
// multiple of 5 are rejected with domain.ErrInvalidYear before any data access.
func (s *Service) Risks(ctx context.Context, q domain.RiskQuery) ([]domain.Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.procs.InvokeProcedure(ctx, ProcRisks,
		domain.Param{Name: "city", Value: q.CityOrDefault()},
		domain.Param{Name: "yar", Value: q.YearParam()},
	)
}

// News searches the news provider. The query is passed through unchanged.
func (s *Service) News(ctx context.Context, q domain.NewsQuery) (domain.NewsResult, error) {
	return s.news.Search(ctx, q)
}

// ReportEvent validates and stores a citizen report, then publishes it when a
// publisher is configured. Publication failures are logged and do not fail
// the request.
func (s *Service) ReportEvent(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error) {
	if err := s.validator.ValidateReport(req); err != nil {
		return domain.EventReport{}, err
	}

	report, err := s.reports.Save(ctx, req)
	if err != nil {
		return domain.EventReport{}, domain.PersistenceError("save event report", err)
	}
	s.metrics.ReportsSaved.Inc()

	s.logger.Info("event reported",
		"report_id", report.ID,
		"event_type", report.EventType,
		"severity", report.Severity,
		"observed_at", report.ObservedAt.Format(time.RFC3339),
		"location", report.LocationText,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			s.logger.Warn("event report publish failed", "report_id", report.ID, "error", err)
		}
	}
	return report, nil
}

// ListReports returns up to domain.DefaultReportLimit reports, most recently
// observed first.
func (s *Service) ListReports(ctx context.Context) ([]domain.EventReport, error) {
	reports, err := s.reports.List(ctx, domain.DefaultReportLimit)
	if err != nil {
		return nil, domain.PersistenceError("list event reports", err)
	}
	return reports, nil
}

// CheckDatabase reports whether the stored-procedure database is reachable.
func (s *Service) CheckDatabase(ctx context.Context) error {
	return s.procs.Ping(ctx)
}

// CheckReadiness returns nil once the database answers a ping and the report
// store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.procs.Ping(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	if err := s.reports.CheckReadiness(ctx); err != nil {
		return fmt.Errorf("report store not ready: %w", err)
	}
	return nil
}
