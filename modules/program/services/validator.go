package services

import (
	"time"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
)

// Window is a date range as it appears on the reporting boundary.
type Window struct {
	Start      *time.Time `json:"start"`
	End        *time.Time `json:"end"`
	IsFlexible bool       `json:"isFlexible"`
}

func windowFrom(r daterange.DateRange) Window {
	return Window{Start: r.Start(), End: r.End(), IsFlexible: r.IsFlexible()}
}

// ValidationResult carries the nesting decision back to the caller. When the
// proposal is rejected for violating the parent window, Suggested holds the
// parent's exact window as a one-click correction; when the parent itself
// lacks dates, Suggested is nil because there is nothing to clamp to.
type ValidationResult struct {
	IsValid   bool    `json:"isValid"`
	Message   string  `json:"message"`
	Suggested *Window `json:"suggested"`
}

// ValidateWindow decides whether a proposed window for a child node fits the
// parent's window. A nil parent means the parent level has no dates yet,
// which is a hard precondition failure: children are never dated before
// their parents. Pure function of its two inputs.
func ValidateWindow(proposed daterange.DateRange, parent *daterange.DateRange) ValidationResult {
	if parent == nil {
		return ValidationResult{
			IsValid: false,
			Message: "the parent has no dates assigned yet; assign the parent's dates first",
		}
	}

	if parent.Contains(proposed) {
		return ValidationResult{
			IsValid: true,
			Message: "proposed dates fit within the parent window",
		}
	}

	suggested := windowFrom(*parent)
	return ValidationResult{
		IsValid:   false,
		Message:   violationMessage(proposed, *parent),
		Suggested: &suggested,
	}
}

func violationMessage(proposed, parent daterange.DateRange) string {
	startViolated := parent.StartsBefore(proposed) || (parent.HasStart() && !proposed.HasStart())
	endViolated := parent.EndsAfter(proposed)
	switch {
	case startViolated && endViolated:
		return "proposed dates fall outside the parent window on both ends"
	case startViolated:
		return "proposed start date is before the parent window start"
	default:
		return "proposed end date is after the parent window end"
	}
}
