package domain_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() domain.EventReportRequest {
	return domain.EventReportRequest{
		EventType:    "flooding",
		Severity:     "moderate",
		ObservedAt:   time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		LocationText: "Grand Isle, LA",
		Description:  "Water over the highway near the bridge",
	}
}

func TestValidator_ValidateReport_Valid(t *testing.T) {
	v := domain.NewValidator()
	req := validReport()
	require.NoError(t, v.ValidateReport(req))

	email := "resident@example.com"
	req.ContactEmail = &email
	assert.NoError(t, v.ValidateReport(req))
}

func TestValidator_ValidateReport_MissingFields(t *testing.T) {
	v := domain.NewValidator()
	req := validReport()
	req.EventType = ""
	req.ObservedAt = time.Time{}

	err := v.ValidateReport(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "eventType is required")
	assert.Contains(t, err.Error(), "observedAt is required")
}

func TestValidator_ValidateReport_BlankField(t *testing.T) {
	v := domain.NewValidator()
	req := validReport()
	req.Severity = "   "

	err := v.ValidateReport(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "severity is required")
}

func TestValidator_ValidateReport_BadEmail(t *testing.T) {
	v := domain.NewValidator()
	req := validReport()
	email := "not-an-email"
	req.ContactEmail = &email

	err := v.ValidateReport(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contactEmail must be a valid email address")
}
