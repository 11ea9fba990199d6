package matching

// DistanceBand maps a maximum distance in kilometers to a proximity score.
type DistanceBand struct {
	MaxKm float64
	Score float64
}

// RatingBand maps a minimum average rating to a rating score.
type RatingBand struct {
	MinRating float64
	Score     float64
}

// RecencyBand maps a maximum number of days since the last completed shift
// to a recency score.
type RecencyBand struct {
	MaxDays int
	Score   float64
}

// ScoreWeights names every constant of the scoring formula so weight changes
// do not touch control flow. Bands are evaluated in order; the first match
// wins, and the floor applies past the last band.
type ScoreWeights struct {
	SkillMax float64

	ProximityBands   []DistanceBand
	ProximityFloor   float64
	ProximityNeutral float64 // used when either side has no location data

	ReliabilityMax float64

	RatingBands []RatingBand
	RatingFloor float64

	RecencyBands   []RecencyBand
	RecencyFloor   float64
	RecencyNeutral float64 // used for workers who have never completed a shift
}

// DefaultScoreWeights returns the production weighting. The composite range
// is asymmetric on purpose: skill and proximity dominate together with the
// raw reliability score, which is scaled in as-is.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		SkillMax: 40,

		ProximityBands: []DistanceBand{
			{MaxKm: 5, Score: 25},
			{MaxKm: 10, Score: 20},
			{MaxKm: 25, Score: 15},
			{MaxKm: 50, Score: 10},
		},
		ProximityFloor:   0,
		ProximityNeutral: 15,

		ReliabilityMax: 100,

		RatingBands: []RatingBand{
			{MinRating: 4.5, Score: 5},
			{MinRating: 4.0, Score: 4},
			{MinRating: 3.5, Score: 3},
			{MinRating: 3.0, Score: 2},
		},
		RatingFloor: 1,

		RecencyBands: []RecencyBand{
			{MaxDays: 7, Score: 10},
			{MaxDays: 30, Score: 8},
			{MaxDays: 90, Score: 6},
			{MaxDays: 180, Score: 4},
		},
		RecencyFloor:   2,
		RecencyNeutral: 5,
	}
}

// CompositeMax returns the upper bound of the composite score under these
// weights (180 with the defaults).
func (w ScoreWeights) CompositeMax() float64 {
	max := w.SkillMax + w.ReliabilityMax
	if len(w.ProximityBands) > 0 {
		max += w.ProximityBands[0].Score
	}
	if len(w.RatingBands) > 0 {
		max += w.RatingBands[0].Score
	}
	if len(w.RecencyBands) > 0 {
		max += w.RecencyBands[0].Score
	}
	return max
}
