// Package mysql invokes the coastal-erosion stored procedures over
// go-sql-driver/mysql and shapes their result sets into domain rows.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
)

var procedureName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Gateway calls stored procedures on a shared connection pool. Each call
// checks out its own connection and returns it before InvokeProcedure returns.
type Gateway struct {
	db      *sql.DB
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewGateway creates a Gateway over db.
func NewGateway(db *sql.DB, metrics *observability.Metrics, logger *slog.Logger) *Gateway {
	return &Gateway{db: db, metrics: metrics, logger: logger}
}

// InvokeProcedure runs CALL name(?, ...) with params bound by position and
// returns the first result set.
func (g *Gateway) InvokeProcedure(ctx context.Context, name string, params ...domain.Param) (rows []domain.Row, err error) {
	if !procedureName.MatchString(name) {
		return nil, domain.ValidationErrorf("invalid procedure name %q", name)
	}

	start := time.Now()
	defer func() {
		g.metrics.ProcedureCalls.WithLabelValues(name, observability.Outcome(err)).Inc()
		g.metrics.ProcedureDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		g.logger.Debug("procedure call",
			"procedure", name,
			"params", paramNames(params),
			"rows", len(rows),
			"duration", time.Since(start),
			"error", err,
		)
	}()

	conn, err := g.db.Conn(ctx)
	if err != nil {
		return nil, domain.DataAccessError("open connection", classify(err))
	}
	defer conn.Close()

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value
	}

	result, err := conn.QueryContext(ctx, callStatement(name, len(params)), args...)
	if err != nil {
		return nil, domain.DataAccessError("call "+name, classify(err))
	}
	defer result.Close()

	rows, err = scanRows(result)
	if err != nil {
		return nil, domain.DataAccessError("read "+name, classify(err))
	}
	return rows, nil
}

// Ping verifies that a connection to the database can be established.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return domain.DataAccessError("ping", classify(err))
	}
	return nil
}

func callStatement(name string, n int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf("CALL %s(%s)", name, placeholders)
}

func paramNames(params []domain.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func scanRows(result *sql.Rows) ([]domain.Row, error) {
	types, err := result.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	rows := make([]domain.Row, 0)
	raw := make([]any, len(types))
	dest := make([]any, len(types))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for result.Next() {
		if err := result.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(domain.Row, len(types))
		for i, ct := range types {
			v, err := normalize(ct.DatabaseTypeName(), raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", ct.Name(), err)
			}
			row[i] = domain.Column{Name: ct.Name(), Value: v}
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
