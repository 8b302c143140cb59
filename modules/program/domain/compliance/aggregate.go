package compliance

import "math"

// Summary is the rollup reported per organization, per project, or
// program-wide. Field names are part of the reporting contract.
type Summary struct {
	Total          int `json:"total"`
	CompliantCount int `json:"compliantCount"`
	DelayedCount   int `json:"delayedCount"`
	CriticalCount  int `json:"criticalCount"`
	AverageDelay   int `json:"averageDelay"`
	ComplianceRate int `json:"complianceRate"`
}

// Aggregate reduces a flat sequence of records into a Summary. The result
// depends only on the input multiset. Records with zero delay are excluded
// from the delay average entirely rather than pulled in as zeros; this
// matches the figures existing dashboards were built against.
func Aggregate(records []Record) Summary {
	s := Summary{Total: len(records)}

	delaySum := 0
	delayCount := 0
	for _, r := range records {
		switch r.Band {
		case BandCompliant:
			s.CompliantCount++
		case BandDelayed:
			s.DelayedCount++
		case BandCritical:
			s.CriticalCount++
		}
		if r.DelayDays > 0 {
			delaySum += r.DelayDays
			delayCount++
		}
	}

	if delayCount > 0 {
		s.AverageDelay = roundHalfUp(float64(delaySum) / float64(delayCount))
	}
	if s.Total > 0 {
		s.ComplianceRate = roundHalfUp(float64(s.CompliantCount) / float64(s.Total) * 100)
	}
	return s
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
