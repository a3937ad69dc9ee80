package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/reportstore"
	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `event_type,severity,observed_at,location,description,contact_name,contact_email
flooding,high,2024-09-11T21:30:00Z,"Cameron, LA",Water over Highway 82,Sam,sam@example.com
erosion,low,2024-09-10 08:15:00,Holly Beach,Dune scarp about a meter tall,,
`

func TestParseReports(t *testing.T) {
	reqs, err := parseReports(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, "flooding", reqs[0].EventType)
	assert.Equal(t, "Cameron, LA", reqs[0].LocationText)
	assert.True(t, reqs[0].ObservedAt.Equal(time.Date(2024, 9, 11, 21, 30, 0, 0, time.UTC)))
	require.NotNil(t, reqs[0].ContactEmail)
	assert.Equal(t, "sam@example.com", *reqs[0].ContactEmail)

	assert.True(t, reqs[1].ObservedAt.Equal(time.Date(2024, 9, 10, 8, 15, 0, 0, time.UTC)))
	assert.Nil(t, reqs[1].ContactName)
	assert.Nil(t, reqs[1].ContactEmail)
}

func TestParseReports_OptionalColumnsAbsent(t *testing.T) {
	in := "event_type,severity,observed_at,location,description\nsurge,moderate,2024-08-01,Grand Isle,Overwash\n"
	reqs, err := parseReports(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Nil(t, reqs[0].ContactName)
}

func TestParseReports_MissingColumn(t *testing.T) {
	_, err := parseReports(strings.NewReader("event_type,severity,observed_at,description\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"location"`)
}

func TestParseReports_InvalidRow(t *testing.T) {
	in := "event_type,severity,observed_at,location,description\n,high,2024-08-01,Grand Isle,Overwash\n"
	_, err := parseReports(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseReports_BadTimestamp(t *testing.T) {
	in := "event_type,severity,observed_at,location,description\nsurge,high,last tuesday,Grand Isle,Overwash\n"
	_, err := parseReports(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observed_at")
}

func TestSeed(t *testing.T) {
	reqs, err := parseReports(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	store := reportstore.NewMemoryStore()
	n, err := seed(context.Background(), store, reqs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	listed, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "flooding", listed[0].EventType)
}
