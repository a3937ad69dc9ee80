package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Defaults applied to stored-procedure parameters.
const (
	DefaultPeriod   = "day"
	DefaultRiskCity = "New Orleans"
	NoNameGiven     = "No Name Given"
)

// User is the body of the echo-test endpoint.
type User struct {
	Name *string `json:"name"`
}

// WaterLevelQuery selects aggregated water-level statistics for a location.
// StartDate and EndDate are passed to the database as-is; empty means no bound.
type WaterLevelQuery struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Period    string `json:"period"` // "day", "month", or "year"
}

// RiskQuery selects predicted risk fields for a city and year.
type RiskQuery struct {
	City string `json:"city"`
	Year int    `json:"year"`
}

// Validate rejects years that are not a multiple of 5.
func (q RiskQuery) Validate() error {
	if q.Year%5 != 0 {
		return ErrInvalidYear
	}
	return nil
}

// YearParam returns the year in the string form the GetRisks procedure expects.
func (q RiskQuery) YearParam() string {
	return strconv.Itoa(q.Year)
}

// CityOrDefault returns the city, or DefaultRiskCity when empty.
func (q RiskQuery) CityOrDefault() string {
	if q.City == "" {
		return DefaultRiskCity
	}
	return q.City
}

// NewsQuery is a keyword search restricted to articles published on or after SearchDate.
type NewsQuery struct {
	Everything bool   `json:"everything"`
	Keyword    string `json:"keyword"`
	Area       string `json:"area"`
	SearchDate Date   `json:"searchDate"`
}

// SearchTerm joins keyword and area with a single space. Empty parts are not
// trimmed, so an empty area leaves a trailing space.
func (q NewsQuery) SearchTerm() string {
	return q.Keyword + " " + q.Area
}

// Date is a calendar date decoded from the client's date picker. It accepts
// "2006-01-02", RFC 3339, and "2006-01-02T15:04:05". A null or empty value
// decodes to the zero Date.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{dateLayout, time.RFC3339Nano, "2006-01-02T15:04:05"}

// NewDate returns the given calendar day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date{Time: t}
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// String formats the date as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
