package storage

import "math"

// blendAverage folds a game's average answer time into the lifetime average,
// weighted by answer counts, with ordinary rounding.
func blendAverage(prior *uint, priorAnswers uint, gameAvg, gameAnswers uint) uint {
	if prior == nil {
		return gameAvg
	}
	total := priorAnswers + gameAnswers
	if total == 0 {
		return *prior
	}
	return uint(math.Round(
		(float64(*prior)*float64(priorAnswers) + float64(gameAvg)*float64(gameAnswers)) / float64(total),
	))
}

// clampScore applies a game's score delta without letting the persisted score
// go negative.
func clampScore(old uint, delta int64) uint {
	if next := int64(old) + delta; next >= 0 {
		return uint(next)
	}
	return 0
}
