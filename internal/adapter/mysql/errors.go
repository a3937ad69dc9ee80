package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
)

// ErrConnection marks failures to reach the server or a connection lost
// mid-call, as opposed to errors raised by the procedure itself.
var ErrConnection = errors.New("mysql: connection failed")

// ErrTimeout marks statements cancelled by their context or the server.
var ErrTimeout = errors.New("mysql: query timeout")

// classify tags driver errors with ErrConnection or ErrTimeout where the
// MySQL error number identifies one. Other errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var me *gomysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case 1040, 1045, 1044, 1049, 2002, 2003, 2006, 2013: // too many conns, access denied, unknown db, can't connect, gone away, lost
		return fmt.Errorf("%w: %w", ErrConnection, err)
	case 3024, 1317: // ER_QUERY_TIMEOUT, ER_QUERY_INTERRUPTED
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return err
	}
}

// IsConnectionError reports whether err was caused by an unreachable or lost connection.
func IsConnectionError(err error) bool { return errors.Is(err, ErrConnection) }
