package upload

import "slices"

// displayRank orders statuses for grouped display: active work first, then
// failures that need attention, then finished tasks.
var displayRank = map[Status]int{
	StatusUploading: 0,
	StatusWaiting:   1,
	StatusError:     2,
	StatusCompleted: 3,
}

// GroupByStatus returns a copy of tasks stably sorted by status for display.
// The input slice is not modified.
func GroupByStatus(tasks []Task) []Task {
	grouped := slices.Clone(tasks)
	slices.SortStableFunc(grouped, func(a, b Task) int {
		return displayRank[a.Status] - displayRank[b.Status]
	})
	return grouped
}

// Summarize computes aggregate counts and the average progress across tasks
// that have left the waiting state.
func Summarize(tasks []Task) Summary {
	var s Summary
	var progressSum float64
	var started int

	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case StatusWaiting:
			s.Waiting++
			continue
		case StatusUploading:
			s.Uploading++
		case StatusCompleted:
			s.Completed++
		case StatusError:
			s.Failed++
		}
		progressSum += t.Progress
		started++
	}

	if started > 0 {
		s.AverageProgress = progressSum / float64(started)
	}
	return s
}
