package history

import (
	"fmt"
	"math"
	"time"
)

func BuildTrendReport(runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			Timestamp:           current.Timestamp,
			RunID:               current.RunID,
			TaskCount:           current.TaskCount,
			EdgeCount:           current.EdgeCount,
			CriticalCount:       current.CriticalCount,
			ProjectDurationDays: current.ProjectDurationDays,
			MaxSlackDays:        current.MaxSlackDays,
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaTasks = current.TaskCount - prev.TaskCount
			point.DeltaEdges = current.EdgeCount - prev.EdgeCount
			point.DeltaCritical = current.CriticalCount - prev.CriticalCount
			point.DeltaDuration = current.ProjectDurationDays - prev.ProjectDurationDays
		}

		avgDuration, avgCritical := movingAverages(runs, i, window)
		point.AvgDuration = round2(avgDuration)
		point.AvgCritical = round2(avgCritical)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverages(runs []Run, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(runs[index].ProjectDurationDays), float64(runs[index].CriticalCount)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	var durationTotal int
	var criticalTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		durationTotal += runs[i].ProjectDurationDays
		criticalTotal += runs[i].CriticalCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(durationTotal) / float64(count), float64(criticalTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
