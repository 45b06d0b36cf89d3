package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Timestamps come from the service clock, never from the database.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// NewAuditFields stamps a freshly created entity.
func NewAuditFields(now time.Time) AuditFields {
	return AuditFields{CreatedAt: now, LastUpdatedAt: now}
}

// Touch records a modification at now.
func (a *AuditFields) Touch(now time.Time) {
	a.LastUpdatedAt = now
}
