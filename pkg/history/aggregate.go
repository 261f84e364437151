package history

// perDateSum buckets revisions by calendar date and sums the extracted
// value per bucket. Dates come out ascending because revisions are sorted.
func perDateSum(revisions []*Revision, value func(*Revision) int) *OrderedMap[Date, int] {
	out := NewOrderedMap[Date, int]()

	for _, rev := range revisions {
		date := rev.Date()
		current, _ := out.Get(date)
		out.Set(date, current+value(rev))
	}

	return out
}

// cumulativeByDate emits a running sum at each revision's date. Later
// revisions on the same date overwrite earlier ones, so each date holds the
// running total as of its last revision. The sum is never clamped.
func cumulativeByDate(revisions []*Revision, value func(*Revision) int) *OrderedMap[Date, int] {
	out := NewOrderedMap[Date, int]()
	sum := 0

	for _, rev := range revisions {
		sum += value(rev)
		out.Set(rev.Date(), sum)
	}

	return out
}
