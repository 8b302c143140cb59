package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
)

var now = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func window(t *testing.T, start, end string, flexible bool) daterange.DateRange {
	t.Helper()
	var s, e *time.Time
	if start != "" {
		v, err := time.Parse(time.DateOnly, start)
		require.NoError(t, err)
		s = &v
	}
	if end != "" {
		v, err := time.Parse(time.DateOnly, end)
		require.NoError(t, err)
		e = &v
	}
	r, err := daterange.New(s, e, flexible)
	require.NoError(t, err)
	return r
}

func TestClassify_Completed(t *testing.T) {
	r := Classify(window(t, "2024-01-01", "2024-01-10", false), true, now)
	require.Equal(t, StatusCompleted, r.Status)
	require.Equal(t, 0, r.DelayDays)
}

func TestClassify_NoDate(t *testing.T) {
	r := Classify(daterange.DateRange{}, false, now)
	require.Equal(t, StatusNoDate, r.Status)

	flexible := Classify(window(t, "2024-01-01", "", true), false, now)
	require.Equal(t, StatusNoDate, flexible.Status, "flexible without end is no-date, never overdue")
}

func TestClassify_Overdue(t *testing.T) {
	r := Classify(window(t, "2024-01-01", "2024-01-10", false), false, now)
	require.Equal(t, StatusOverdue, r.Status)
	require.Equal(t, 5, r.DelayDays)
	require.Equal(t, BandDelayed, r.Band)
}

func TestClassify_Upcoming(t *testing.T) {
	r := Classify(window(t, "2024-01-01", "2024-01-20", false), false, now)
	require.Equal(t, StatusUpcoming, r.Status)
	require.Equal(t, 0, r.DelayDays)

	// End lands exactly on "now": the boundary day is not a violation.
	onBoundary := Classify(window(t, "2024-01-01", "2024-01-15", false), false, now)
	require.Equal(t, StatusUpcoming, onBoundary.Status)
	require.Equal(t, 0, onBoundary.DelayDays)

	// End exactly seven days out is still inside the upcoming window.
	sevenOut := Classify(window(t, "2024-01-01", "2024-01-22", false), false, now)
	require.Equal(t, StatusUpcoming, sevenOut.Status)
}

func TestClassify_OnTime(t *testing.T) {
	r := Classify(window(t, "2024-01-01", "2024-01-23", false), false, now)
	require.Equal(t, StatusOnTime, r.Status)
	require.Equal(t, BandCompliant, r.Band)
}

func TestClassify_Totality(t *testing.T) {
	windows := []daterange.DateRange{
		{},
		window(t, "2024-01-01", "", true),
		window(t, "", "2024-01-01", false),
		window(t, "2024-01-01", "2024-01-15", false),
		window(t, "2024-01-01", "2024-12-31", false),
	}
	known := map[Status]bool{
		StatusCompleted: true,
		StatusNoDate:    true,
		StatusOverdue:   true,
		StatusUpcoming:  true,
		StatusOnTime:    true,
	}
	for _, w := range windows {
		for _, completed := range []bool{true, false} {
			r := Classify(w, completed, now)
			require.True(t, known[r.Status], "unclassified result %q", r.Status)
		}
	}
}

func TestBandFor(t *testing.T) {
	require.Equal(t, BandCompliant, BandFor(0))
	require.Equal(t, BandDelayed, BandFor(1))
	require.Equal(t, BandDelayed, BandFor(30))
	require.Equal(t, BandCritical, BandFor(31))
}

func TestAggregate(t *testing.T) {
	records := []Record{
		{Band: BandCompliant, DelayDays: 0},
		{Band: BandDelayed, DelayDays: 10},
		{Band: BandCritical, DelayDays: 40},
	}
	s := Aggregate(records)
	require.Equal(t, 3, s.Total)
	require.Equal(t, 1, s.CompliantCount)
	require.Equal(t, 1, s.DelayedCount)
	require.Equal(t, 1, s.CriticalCount)
	require.Equal(t, 25, s.AverageDelay, "zero-delay records are excluded from the mean")
	require.Equal(t, 33, s.ComplianceRate)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	require.Equal(t, Summary{}, s)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := []Record{
		{Band: BandDelayed, DelayDays: 3},
		{Band: BandCompliant, DelayDays: 0},
		{Band: BandCritical, DelayDays: 45},
	}
	b := []Record{a[2], a[0], a[1]}
	require.Equal(t, Aggregate(a), Aggregate(b))
}

func TestAggregate_RoundsHalfUp(t *testing.T) {
	records := []Record{
		{Band: BandCompliant},
		{Band: BandDelayed, DelayDays: 1},
	}
	s := Aggregate(records)
	require.Equal(t, 50, s.ComplianceRate)

	records = append(records, Record{Band: BandDelayed, DelayDays: 2})
	s = Aggregate(records)
	// 1/3 → 33.33…, rounds down; mean delay 1.5 rounds up to 2.
	require.Equal(t, 33, s.ComplianceRate)
	require.Equal(t, 2, s.AverageDelay)
}
