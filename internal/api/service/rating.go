package service

// AggregateRating derives a title's display rating from its review
// score sum and count: the integer-truncated average, or 0 when the
// title has no reviews. Scores are positive, so truncation toward zero
// is the floor.
func AggregateRating(sum, count int64) int {
	if count == 0 {
		return 0
	}
	return int(sum / count)
}
