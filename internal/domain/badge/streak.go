package badge

import (
	"sort"
	"time"
)

// LongestStreak считает самую длинную серию подряд идущих календарных дней (UTC).
// Несколько событий в один день считаются одним днём.
func LongestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	unique := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		unique[truncateDay(d)] = struct{}{}
	}

	sorted := make([]time.Time, 0, len(unique))
	for d := range unique {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
	}
	return best
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
