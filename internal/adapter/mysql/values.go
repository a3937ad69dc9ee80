package mysql

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
)

// normalize converts a scanned driver value to a domain.Value. The text
// protocol returns most columns as []byte, so the column's database type
// decides whether bytes are read as a number or kept as a string.
func normalize(dbType string, v any) (domain.Value, error) {
	switch x := v.(type) {
	case nil:
		return domain.NullValue(), nil
	case int64:
		return domain.IntValue(x), nil
	case int32:
		return domain.IntValue(int64(x)), nil
	case int:
		return domain.IntValue(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float64:
		return domain.FloatValue(x), nil
	case float32:
		return domain.FloatValue(float64(x)), nil
	case bool:
		return domain.BoolValue(x), nil
	case time.Time:
		return domain.StringValue(x.Format(time.RFC3339)), nil
	case string:
		return fromText(dbType, x)
	case []byte:
		return fromText(dbType, string(x))
	default:
		return domain.StringValue(fmt.Sprint(x)), nil
	}
}

// fromUint keeps BIGINT UNSIGNED values above math.MaxInt64 exact as decimal text.
func fromUint(u uint64) domain.Value {
	if u > math.MaxInt64 {
		return domain.StringValue(strconv.FormatUint(u, 10))
	}
	return domain.IntValue(int64(u))
}

func fromText(dbType, s string) (domain.Value, error) {
	switch {
	case isInteger(dbType):
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return domain.IntValue(i), nil
		}
		if u, uerr := strconv.ParseUint(s, 10, 64); uerr == nil {
			return fromUint(u), nil
		}
		return domain.Value{}, fmt.Errorf("parse %s %q: %w", dbType, s, err)
	case isDecimal(dbType):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Value{}, fmt.Errorf("parse %s %q: %w", dbType, s, err)
		}
		return domain.FloatValue(f), nil
	default:
		return domain.StringValue(s), nil
	}
}

func baseType(dbType string) string {
	return strings.TrimPrefix(strings.ToUpper(dbType), "UNSIGNED ")
}

func isInteger(dbType string) bool {
	switch baseType(dbType) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		return true
	}
	return false
}

func isDecimal(dbType string) bool {
	switch baseType(dbType) {
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
		return true
	}
	return false
}
