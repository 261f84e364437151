package history

import "time"

// Activity hours per day and days per week.
const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// Activity is a fixed-shape day-of-week by hour-of-day commit count matrix.
// Each revision contributes in its own timestamp's timezone; offsets are
// not normalized. Immutable once built.
type Activity struct {
	counts [daysPerWeek][hoursPerDay]int
	total  int
}

// NewActivity builds the matrix in a single pass over the revisions.
func NewActivity(revisions []*Revision) *Activity {
	activity := &Activity{}

	for _, rev := range revisions {
		ts := rev.Timestamp()
		activity.counts[int(ts.Weekday())][ts.Hour()]++
		activity.total++
	}

	return activity
}

// Count returns the number of revisions at the given weekday and hour.
func (a *Activity) Count(weekday time.Weekday, hour int) int {
	return a.counts[int(weekday)][hour]
}

// Matrix returns a copy of the full 7x24 count matrix, indexed by weekday
// (Sunday first) then hour.
func (a *Activity) Matrix() [daysPerWeek][hoursPerDay]int {
	return a.counts
}

// Total returns the total number of revisions counted.
func (a *Activity) Total() int {
	return a.total
}

// Busiest returns the weekday and hour with the most revisions. Ties are
// broken by earliest weekday, then earliest hour.
func (a *Activity) Busiest() (time.Weekday, int) {
	bestDay, bestHour, best := 0, 0, -1

	for day := range daysPerWeek {
		for hour := range hoursPerDay {
			if a.counts[day][hour] > best {
				bestDay, bestHour, best = day, hour, a.counts[day][hour]
			}
		}
	}

	return time.Weekday(bestDay), bestHour
}
