package controllers

import "time"

// APIError is the JSON error envelope for all program API responses.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// proposeDatesRequest is the body of POST /nodes/{id}/dates:propose. Dates
// are date-only strings; expected_last_modified echoes the last_modified the
// client read before editing and is required when replacing an existing
// assignment.
type proposeDatesRequest struct {
	Level                string     `json:"level" validate:"omitempty,oneof=project sub_project task"`
	OrganizationID       string     `json:"organization_id" validate:"required,uuid"`
	Start                *string    `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End                  *string    `json:"end" validate:"omitempty,datetime=2006-01-02"`
	IsFlexible           bool       `json:"is_flexible"`
	ExpectedLastModified *time.Time `json:"expected_last_modified"`
}
