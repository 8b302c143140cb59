package daterange

import (
	"fmt"
	"math"
	"time"

	gerrors "github.com/go-faster/errors"
)

var ErrInvalidRange = gerrors.New("date range start is after end")

// DateRange is a validated (start, end, flexible) triple. A flexible range
// has no enforced end date and is exempt from upper-bound nesting checks.
// The zero value is the fully unset range.
type DateRange struct {
	start    *time.Time
	end      *time.Time
	flexible bool
}

func New(start, end *time.Time, flexible bool) (DateRange, error) {
	if start != nil && end != nil && start.After(*end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return DateRange{start: normalize(start), end: normalize(end), flexible: flexible}, nil
}

// MustNew is for constants and tests with known-good bounds.
func MustNew(start, end *time.Time, flexible bool) DateRange {
	r, err := New(start, end, flexible)
	if err != nil {
		panic(err)
	}
	return r
}

func normalize(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(24 * time.Hour)
	return &u
}

func (r DateRange) Start() *time.Time { return r.start }
func (r DateRange) End() *time.Time   { return r.end }
func (r DateRange) IsFlexible() bool  { return r.flexible }

func (r DateRange) HasStart() bool { return r.start != nil }

// HasEnd reports whether the range carries an enforceable end date.
func (r DateRange) HasEnd() bool { return r.end != nil }

func (r DateRange) IsZero() bool {
	return r.start == nil && r.end == nil && !r.flexible
}

// Contains reports whether other nests inside r. The lower bound always
// applies; the upper bound is waived when r has no hard end or when other
// is flexible.
func (r DateRange) Contains(other DateRange) bool {
	if r.start != nil {
		if other.start == nil || other.start.Before(*r.start) {
			return false
		}
	}
	if r.flexible || r.end == nil || other.flexible {
		return true
	}
	if other.end == nil {
		return false
	}
	return !other.end.After(*r.end)
}

// StartsBefore reports whether other starts before r's lower bound.
func (r DateRange) StartsBefore(other DateRange) bool {
	if r.start == nil || other.start == nil {
		return false
	}
	return other.start.Before(*r.start)
}

// EndsAfter reports whether other runs past r's upper bound.
func (r DateRange) EndsAfter(other DateRange) bool {
	if r.flexible || r.end == nil || other.flexible {
		return false
	}
	if other.end == nil {
		return true
	}
	return other.end.After(*r.end)
}

// DaysOverdue returns ceil((reference - end) / 1 day). Positive values mean
// the end date has passed; zero or negative means time remains. Landing
// exactly on the boundary day is not a violation.
func DaysOverdue(end, reference time.Time) int {
	delta := reference.UTC().Truncate(24 * time.Hour).Sub(end.UTC().Truncate(24 * time.Hour))
	return int(math.Ceil(delta.Hours() / 24))
}

// DelayDays is DaysOverdue clamped at zero, the figure dashboards report.
func DelayDays(end, reference time.Time) int {
	if d := DaysOverdue(end, reference); d > 0 {
		return d
	}
	return 0
}
