package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
)

func day(t *testing.T, value string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)
	return &v
}

func mustRange(t *testing.T, start, end *time.Time, flexible bool) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(start, end, flexible)
	require.NoError(t, err)
	return r
}

func TestValidateWindow_NoParent(t *testing.T) {
	proposed := mustRange(t, day(t, "2024-02-01"), day(t, "2024-05-01"), false)

	result := ValidateWindow(proposed, nil)
	require.False(t, result.IsValid)
	require.Nil(t, result.Suggested)
	require.Contains(t, result.Message, "parent")
}

func TestValidateWindow_Nested(t *testing.T) {
	parent := mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), false)
	proposed := mustRange(t, day(t, "2024-02-01"), day(t, "2024-05-01"), false)

	result := ValidateWindow(proposed, &parent)
	require.True(t, result.IsValid)
	require.Nil(t, result.Suggested)
	require.NotEmpty(t, result.Message)
}

func TestValidateWindow_EndPastParent(t *testing.T) {
	parent := mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), false)
	proposed := mustRange(t, day(t, "2024-02-01"), day(t, "2024-07-15"), false)

	result := ValidateWindow(proposed, &parent)
	require.False(t, result.IsValid)
	require.Contains(t, result.Message, "end")
	require.NotNil(t, result.Suggested)
	require.Equal(t, parent.Start(), result.Suggested.Start)
	require.Equal(t, parent.End(), result.Suggested.End)
}

func TestValidateWindow_StartBeforeParent(t *testing.T) {
	parent := mustRange(t, day(t, "2024-02-01"), day(t, "2024-06-30"), false)
	proposed := mustRange(t, day(t, "2024-01-15"), day(t, "2024-05-01"), false)

	result := ValidateWindow(proposed, &parent)
	require.False(t, result.IsValid)
	require.Contains(t, result.Message, "start")
	require.NotNil(t, result.Suggested)
}

func TestValidateWindow_BothBoundsViolated(t *testing.T) {
	parent := mustRange(t, day(t, "2024-02-01"), day(t, "2024-05-31"), false)
	proposed := mustRange(t, day(t, "2024-01-15"), day(t, "2024-07-01"), false)

	result := ValidateWindow(proposed, &parent)
	require.False(t, result.IsValid)
	require.Contains(t, result.Message, "both")
}

func TestValidateWindow_FlexibleChildExempt(t *testing.T) {
	parent := mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), false)
	proposed := mustRange(t, day(t, "2024-02-01"), day(t, "2024-12-31"), true)

	result := ValidateWindow(proposed, &parent)
	require.True(t, result.IsValid)
}

func TestValidateWindow_FlexibleChildStartStillChecked(t *testing.T) {
	parent := mustRange(t, day(t, "2024-02-01"), day(t, "2024-06-30"), false)
	proposed := mustRange(t, day(t, "2024-01-01"), nil, true)

	result := ValidateWindow(proposed, &parent)
	require.False(t, result.IsValid)
	require.Contains(t, result.Message, "start")
}

func TestValidateWindow_FlexibleParentWaivesUpperBound(t *testing.T) {
	parent := mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), true)
	proposed := mustRange(t, day(t, "2024-02-01"), day(t, "2024-12-31"), false)

	result := ValidateWindow(proposed, &parent)
	require.True(t, result.IsValid)
}

func TestValidateWindow_MatchesContains(t *testing.T) {
	parents := []daterange.DateRange{
		mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), false),
		mustRange(t, day(t, "2024-01-01"), nil, false),
		mustRange(t, day(t, "2024-03-01"), day(t, "2024-04-30"), true),
	}
	proposals := []daterange.DateRange{
		mustRange(t, day(t, "2024-01-01"), day(t, "2024-06-30"), false),
		mustRange(t, day(t, "2023-12-31"), day(t, "2024-05-01"), false),
		mustRange(t, day(t, "2024-03-15"), day(t, "2024-08-01"), false),
		mustRange(t, day(t, "2024-02-01"), nil, true),
	}
	for _, parent := range parents {
		for _, proposed := range proposals {
			result := ValidateWindow(proposed, &parent)
			require.Equal(t, parent.Contains(proposed), result.IsValid)
		}
	}
}
