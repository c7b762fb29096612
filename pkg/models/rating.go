package models

// AverageRating is the arithmetic mean of the review ratings, 0 when there
// are none. The value is derived on read and never stored.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews))
}
