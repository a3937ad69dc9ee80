package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/labstack/echo/v4"
)

// Client-facing failure messages, one per operation.
const (
	msgUserName    = "Error Getting User Name"
	msgWaterLevels = "Error Getting Water Levels"
	msgRisks       = "Error Getting Risks"
	msgNews        = "Error Getting News"
	msgReportEvent = "Error Reporting Event"
	msgReports     = "Error Getting Reports"
)

// API is the set of operations served under /api/Coasty.
type API interface {
	NameEcho(user domain.User) string
	AvgWaterLevels(ctx context.Context, q domain.WaterLevelQuery) ([]domain.Row, error)
	Risks(ctx context.Context, q domain.RiskQuery) ([]domain.Row, error)
	News(ctx context.Context, q domain.NewsQuery) (domain.NewsResult, error)
	ReportEvent(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error)
	ListReports(ctx context.Context) ([]domain.EventReport, error)
	CheckDatabase(ctx context.Context) error
}

type dbStatus struct {
	Message   string `json:"message"`
	Connected bool   `json:"connected"`
}

type reportAck struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
}

func (s *Server) registerRoutes(g *echo.Group) {
	g.GET("/setup/Test", s.handleTest)
	g.GET("/setup/TestDbConnection", s.handleTestDB)
	g.POST("/setup/GetUserTest", s.handleUserTest)
	g.POST("/GetVerifiedWaterLevels", s.handleWaterLevels)
	g.POST("/GetRisks", s.handleRisks)
	g.POST("/News/GetEverything", s.handleNews)
	g.POST("/ReportEvent", s.handleReportEvent)
	g.GET("/GetReports", s.handleGetReports)
}

func (s *Server) handleTest(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleTestDB(c echo.Context) error {
	if err := s.api.CheckDatabase(c.Request().Context()); err != nil {
		s.logFailure("TestDbConnection", err)
		return c.JSON(http.StatusInternalServerError, dbStatus{Message: "Database connection failed", Connected: false})
	}
	return c.JSON(http.StatusOK, dbStatus{Message: "Database connection successful", Connected: true})
}

func (s *Server) handleUserTest(c echo.Context) error {
	var user domain.User
	if err := c.Bind(&user); err != nil {
		return s.fail(c, "GetUserTest", msgUserName, bindError(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"UserName": s.api.NameEcho(user)})
}

func (s *Server) handleWaterLevels(c echo.Context) error {
	var q domain.WaterLevelQuery
	if err := c.Bind(&q); err != nil {
		return s.fail(c, "GetVerifiedWaterLevels", msgWaterLevels, bindError(err))
	}
	rows, err := s.api.AvgWaterLevels(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, "GetVerifiedWaterLevels", msgWaterLevels, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleRisks(c echo.Context) error {
	var q domain.RiskQuery
	if err := c.Bind(&q); err != nil {
		return s.fail(c, "GetRisks", msgRisks, bindError(err))
	}
	rows, err := s.api.Risks(c.Request().Context(), q)
	if errors.Is(err, domain.ErrInvalidYear) {
		return s.fail(c, "GetRisks", domain.InvalidYearMessage, err)
	}
	if err != nil {
		return s.fail(c, "GetRisks", msgRisks, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleNews(c echo.Context) error {
	var q domain.NewsQuery
	if err := c.Bind(&q); err != nil {
		return s.fail(c, "GetEverything", msgNews, bindError(err))
	}
	result, err := s.api.News(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, "GetEverything", msgNews, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleReportEvent(c echo.Context) error {
	var req domain.EventReportRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, "ReportEvent", msgReportEvent, bindError(err))
	}
	report, err := s.api.ReportEvent(c.Request().Context(), req)
	if err != nil {
		return s.fail(c, "ReportEvent", msgReportEvent, err)
	}
	return c.JSON(http.StatusOK, reportAck{Message: "Event reported successfully", Success: true, ID: report.ID})
}

func (s *Server) handleGetReports(c echo.Context) error {
	reports, err := s.api.ListReports(c.Request().Context())
	if err != nil {
		return s.fail(c, "GetReports", msgReports, err)
	}
	return c.JSON(http.StatusOK, reports)
}

// fail logs err once and answers 500 with the operation's static message.
func (s *Server) fail(c echo.Context, op, msg string, err error) error {
	s.logFailure(op, err)
	return c.String(http.StatusInternalServerError, msg)
}

func (s *Server) logFailure(op string, err error) {
	s.logger.Error("request failed", "operation", op, "kind", domain.KindOf(err), "error", err)
}

// bindError reports a malformed request body as a validation error.
func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		return domain.ValidationErrorf("malformed request body: %v", he.Internal)
	}
	return domain.ValidationErrorf("malformed request body: %v", err)
}
