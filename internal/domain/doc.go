// Package domain models the coastal-erosion data served to the map client.
//
// # Data Sources
//
// Water-level statistics and risk predictions live in a MySQL database and are
// only reachable through two stored procedures:
//
//	GetVerifiedWaterLevels(p_time_period, p_city, p_state, p_start_date, p_end_date)
//	GetRisks(city, yar)
//
// Their result sets have no fixed schema. Column names are passed through
// verbatim as [Row] values, e.g. "2030_worst_case" or "2030_status" for a risk
// query on year 2030.
//
// News articles come from a NewsAPI-compatible search provider. Citizen event
// reports are owned by this service and stored in the event_reports table.
//
// # Conventions
//
// Empty strings sent to stored procedures become SQL NULL (see [NullIfEmpty]),
// except where a default applies: period defaults to "day" and the risk city
// defaults to "New Orleans".
//
// Risk predictions exist only for years that are multiples of five. Any other
// year is rejected with [ErrInvalidYear] before the database is touched.
//
// # Errors
//
// Failures are classified by wrapping one of four sentinels: [ErrValidation],
// [ErrDataAccess], [ErrNewsProvider], [ErrPersistence]. The HTTP layer maps all
// of them to a 500 response with a static message per operation.
package domain
