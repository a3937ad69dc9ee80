package domain

import "time"

// DefaultReportLimit caps the number of reports returned by a list.
const DefaultReportLimit = 100

// EventReportRequest is a citizen-submitted observation of a coastal hazard.
type EventReportRequest struct {
	EventType    string    `json:"eventType" validate:"required"`
	Severity     string    `json:"severity" validate:"required"`
	ObservedAt   time.Time `json:"observedAt" validate:"required"`
	LocationText string    `json:"locationText" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	ContactName  *string   `json:"contactName,omitempty"`
	ContactEmail *string   `json:"contactEmail,omitempty" validate:"omitempty,email"`
}

// EventReport is a stored report. ID and CreatedAt are assigned by the store;
// reports are never modified after creation.
type EventReport struct {
	ID int64 `json:"id"`
	EventReportRequest
	CreatedAt time.Time `json:"createdAt"`
}
