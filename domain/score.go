package domain

import "math"

// ScoreModel maps a guess distance to points: MaxScore for a perfect guess,
// one point lost per KmPerPoint kilometers, floor at 0. Deterministic and
// monotonically non-increasing in distance.
type ScoreModel struct {
	MaxScore   int64
	KmPerPoint float64
}

func (m ScoreModel) Score(distanceKm float64) int64 {
	lost := math.Round(distanceKm / m.KmPerPoint)
	if lost >= float64(m.MaxScore) {
		return 0
	}
	return m.MaxScore - int64(lost)
}
