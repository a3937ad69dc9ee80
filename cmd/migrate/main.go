// Command migrate applies the embedded event_reports schema to the database
// named by DATABASE_DSN.
//
// Usage:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down 1
//	go run ./cmd/migrate version
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/couchcryptid/coastal-erosion-api/internal/config"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
	"github.com/couchcryptid/coastal-erosion-api/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
)

// schema is the subset of *migrate.Migrate the commands use.
type schema interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down [steps] | version")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("failed to open embedded migrations", "error", err)
		os.Exit(1)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "mysql://"+cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to connect for migrations", "error", err)
		os.Exit(1)
	}
	m.Log = migrationLog{logger: logger}

	runErr := runCommand(m, flag.Args(), logger)
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		logger.Warn("failed to close migrator", "source_error", srcErr, "database_error", dbErr)
	}
	if runErr != nil {
		logger.Error("migration failed", "command", flag.Arg(0), "error", runErr)
		os.Exit(1)
	}
}

// runCommand executes one migration command. An already current schema is
// not an error.
func runCommand(s schema, args []string, logger *slog.Logger) error {
	switch args[0] {
	case "up":
		if err := s.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
		logger.Info("schema up to date")
	case "down":
		steps, err := downSteps(args[1:])
		if err != nil {
			return err
		}
		if err := s.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down %d: %w", steps, err)
		}
		logger.Info("schema rolled back", "steps", steps)
	case "version":
		v, dirty, err := s.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("schema has no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func downSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("down: steps must be a positive integer, got %q", args[0])
	}
	return n, nil
}

// migrationLog routes migrate's progress lines to slog at debug.
type migrationLog struct {
	logger *slog.Logger
}

func (l migrationLog) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l migrationLog) Verbose() bool { return false }
