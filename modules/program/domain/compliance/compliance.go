package compliance

import (
	"time"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
)

// Status is the day-to-day schedule state shown on dashboards.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusNoDate    Status = "no-date"
	StatusOverdue   Status = "overdue"
	StatusUpcoming  Status = "upcoming"
	StatusOnTime    Status = "on-time"
)

// Band is the coarser classification used for compliance-rate reporting
// over historical and whole-project data.
type Band string

const (
	BandCompliant Band = "compliant"
	BandDelayed   Band = "delayed"
	BandCritical  Band = "critical"
)

// Fixed reporting policy. Dashboards on every tenant share these windows;
// they are part of the output contract, not configuration.
const (
	UpcomingWindowDays = 7
	DelayedBandMaxDays = 30
)

// Record is derived fresh from a date window and "now" on every call.
// It is never persisted: recomputation is cheap and a stored copy would go
// stale the moment the clock moves.
type Record struct {
	Status     Status    `json:"status"`
	Band       Band      `json:"band"`
	DelayDays  int       `json:"delayDays"`
	ComputedAt time.Time `json:"computedAt"`
}

// Classify maps a date window (possibly unset) and the owning node's
// completion flag to a Record. Every input maps to exactly one status.
func Classify(window daterange.DateRange, completed bool, now time.Time) Record {
	record := Record{ComputedAt: now}

	if completed {
		record.Status = StatusCompleted
		record.Band = BandCompliant
		return record
	}

	end := window.End()
	if end == nil {
		// Flexible assignments without an end land here too: no hard end
		// means nothing to be overdue against.
		record.Status = StatusNoDate
		record.Band = BandCompliant
		return record
	}

	record.DelayDays = daterange.DelayDays(*end, now)
	record.Band = BandFor(record.DelayDays)

	switch overdueBy := daterange.DaysOverdue(*end, now); {
	case overdueBy > 0:
		record.Status = StatusOverdue
	case overdueBy >= -UpcomingWindowDays:
		record.Status = StatusUpcoming
	default:
		record.Status = StatusOnTime
	}
	return record
}

// BandFor maps delay days onto the reporting band.
func BandFor(delayDays int) Band {
	switch {
	case delayDays <= 0:
		return BandCompliant
	case delayDays <= DelayedBandMaxDays:
		return BandDelayed
	default:
		return BandCritical
	}
}
