package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/coastal-erosion-api/internal/adapter/http"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/mysql"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/reportstore"
	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
	"github.com/couchcryptid/coastal-erosion-api/internal/service"
)

type stubNews struct{}

func (stubNews) Search(context.Context, domain.NewsQuery) (domain.NewsResult, error) {
	return domain.NewsResult{Articles: []domain.NewsArticle{}}, nil
}

// newWiredServer runs the real service and gateway over sqlmock so the whole
// request path is exercised.
func newWiredServer(t *testing.T) (http.Handler, sqlmock.Sqlmock, func() int) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	gw := mysql.NewGateway(db, metrics, logger)
	svc := service.New(gw, stubNews{}, reportstore.NewMemoryStore(), nil, metrics, logger)
	srv := httpadapter.NewServer(":0", svc, svc, []string{testOrigin}, metrics, logger)
	return srv, mock, func() int { return db.Stats().InUse }
}

func TestWaterLevels_ConnectionFailureReturns500AndReleasesConnection(t *testing.T) {
	srv, mock, inUse := newWiredServer(t)

	mock.ExpectQuery("CALL GetVerifiedWaterLevels(?, ?, ?, ?, ?)").
		WithArgs("day", "Grand Isle", "LA", nil, nil).
		WillReturnError(&gomysql.MySQLError{Number: 2013, Message: "Lost connection to MySQL server during query"})

	rec := do(t, srv, http.MethodPost, "/api/Coasty/GetVerifiedWaterLevels", `{"city":"Grand Isle","state":"LA","startDate":"","endDate":""}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error Getting Water Levels", rec.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, inUse())
}

func TestRisks_WiredSuccess(t *testing.T) {
	srv, mock, inUse := newWiredServer(t)

	mock.ExpectQuery("CALL GetRisks(?, ?)").
		WithArgs("New Orleans", "2020").
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("2020_worst_case").OfType("DECIMAL", []byte{}),
			sqlmock.NewColumn("2020_status").OfType("VARCHAR", ""),
		).AddRow([]byte("2.75"), "High"))

	rec := do(t, srv, http.MethodPost, "/api/Coasty/GetRisks", `{"year":2020}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"2020_worst_case":2.75,"2020_status":"High"}]`, strings.TrimSpace(rec.Body.String()))

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, inUse())
}

func TestRisks_WiredInvalidYearNeverCallsDatabase(t *testing.T) {
	srv, mock, _ := newWiredServer(t)

	rec := do(t, srv, http.MethodPost, "/api/Coasty/GetRisks", `{"city":"Houma","year":2021}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Invalid Year Selection Must be multiple of 5", rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportEvent_WiredThenListed(t *testing.T) {
	srv, _, _ := newWiredServer(t)

	rec := do(t, srv, http.MethodPost, "/api/Coasty/ReportEvent", `{
		"eventType": "surge",
		"severity": "high",
		"observedAt": "2024-09-11T21:30:00Z",
		"locationText": "Cocodrie, LA",
		"description": "Surge over the levee road"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Event reported successfully","success":true,"id":1}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/Coasty/GetReports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"locationText":"Cocodrie, LA"`)

	rec = do(t, srv, http.MethodPost, "/api/Coasty/ReportEvent", `{"eventType":"surge"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error Reporting Event", rec.Body.String())
}
