package schedule

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/domain"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// DefaultBaseDate is the day schedule offsets count from when none is configured
var DefaultBaseDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// SnapshotFromResult converts a schedule result into a timeline snapshot by
// placing each task's day offsets after base.
func SnapshotFromResult(result *api.ScheduleResult, base time.Time) timeline.Snapshot {
	snap := timeline.Snapshot{Tasks: []timeline.ScheduledTask{}}
	if result == nil {
		return snap
	}

	var maxEnd float64
	for _, st := range result.ScheduledTasks {
		snap.Tasks = append(snap.Tasks, timeline.ScheduledTask{
			ID:        st.ID,
			Title:     st.Title,
			Start:     offset(base, st.StartTime),
			End:       offset(base, st.EndTime),
			Resources: append([]string{}, st.Resources...),
		})
		if st.EndTime > maxEnd {
			maxEnd = st.EndTime
		}
	}

	if len(snap.Tasks) > 0 {
		snap.ProjectStart = base.Format(time.RFC3339)
		snap.ProjectEnd = offset(base, maxEnd).Format(time.RFC3339)
	}
	return snap
}

func offset(base time.Time, days float64) time.Time {
	return base.Add(time.Duration(days * float64(day)))
}

// ByPriority returns the scheduled tasks ordered by suggested priority,
// highest first, then by start time. Tasks without analysis count as medium.
func ByPriority(result *api.ScheduleResult) []api.ScheduledTaskAnalysis {
	if result == nil {
		return nil
	}
	out := append([]api.ScheduledTaskAnalysis{}, result.ScheduledTasks...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := PriorityOf(out[i]), PriorityOf(out[j])
		if pi != pj {
			return pi.IsHigherThan(pj)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// PriorityOf returns the suggested priority of a scheduled task
func PriorityOf(t api.ScheduledTaskAnalysis) domain.Priority {
	if t.LLMAnalysis == nil {
		return domain.PriorityMedium
	}
	return domain.ParsePriority(t.LLMAnalysis.SuggestedPriority)
}
