package matching

import (
	"sort"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/geo"
)

// Scorer computes the five-part composite score for a worker/shift pair.
// Every band and weight comes from ScoreWeights; the scorer itself is pure.
type Scorer struct {
	weights matching.ScoreWeights
}

func NewScorer(weights matching.ScoreWeights) *Scorer {
	return &Scorer{weights: weights}
}

func (s *Scorer) Weights() matching.ScoreWeights {
	return s.weights
}

// Score computes the sub-score breakdown for a worker applying to a shift.
// now anchors the recency calculation.
func (s *Scorer) Score(w worker.Worker, reliabilityScore float64, sh shift.Shift, now time.Time) matching.ScoreBreakdown {
	breakdown := matching.ScoreBreakdown{
		Skill:       s.skillScore(w.Skills, sh.RequiredSkills),
		Reliability: clamp(reliabilityScore, 0, s.weights.ReliabilityMax),
		Rating:      s.ratingScore(w.AverageRating),
		Recency:     s.recencyScore(w.LastCompletedShiftAt, now),
	}

	if w.HomeLatitude != nil && w.HomeLongitude != nil {
		distanceKm := geo.DistanceKm(*w.HomeLatitude, *w.HomeLongitude, sh.Latitude, sh.Longitude)
		breakdown.DistanceKm = &distanceKm
		breakdown.Proximity = s.proximityScore(distanceKm)
	} else {
		breakdown.Proximity = s.weights.ProximityNeutral
	}

	return breakdown
}

// skillScore is proportional to how many of the shift's required skills the
// worker has. A shift with no required skills scores everyone at the maximum.
func (s *Scorer) skillScore(workerSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return s.weights.SkillMax
	}

	have := make(map[string]bool, len(workerSkills))
	for _, skill := range workerSkills {
		have[skill] = true
	}

	matched := 0
	for _, required := range requiredSkills {
		if have[required] {
			matched++
		}
	}

	score := s.weights.SkillMax * float64(matched) / float64(len(requiredSkills))
	return clamp(score, 0, s.weights.SkillMax)
}

func (s *Scorer) proximityScore(distanceKm float64) float64 {
	for _, band := range s.weights.ProximityBands {
		if distanceKm <= band.MaxKm {
			return band.Score
		}
	}
	return s.weights.ProximityFloor
}

func (s *Scorer) ratingScore(averageRating *float64) float64 {
	if averageRating == nil {
		return s.weights.RatingFloor
	}
	for _, band := range s.weights.RatingBands {
		if *averageRating >= band.MinRating {
			return band.Score
		}
	}
	return s.weights.RatingFloor
}

func (s *Scorer) recencyScore(lastCompleted *time.Time, now time.Time) float64 {
	if lastCompleted == nil {
		return s.weights.RecencyNeutral
	}
	days := int(now.Sub(*lastCompleted).Hours() / 24)
	for _, band := range s.weights.RecencyBands {
		if days <= band.MaxDays {
			return band.Score
		}
	}
	return s.weights.RecencyFloor
}

// Rank produces the total order for a shift's pending applications: match
// score descending, ties broken by earliest application. The sort is stable
// so reruns over unchanged input are idempotent.
func Rank(apps []matching.ShiftApplication) []matching.RankUpdate {
	ordered := make([]matching.ShiftApplication, len(apps))
	copy(ordered, apps)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MatchScore != ordered[j].MatchScore {
			return ordered[i].MatchScore > ordered[j].MatchScore
		}
		return ordered[i].AppliedAt.Before(ordered[j].AppliedAt)
	})

	updates := make([]matching.RankUpdate, len(ordered))
	for i, app := range ordered {
		updates[i] = matching.RankUpdate{ApplicationID: app.ID, Position: i + 1}
	}
	return updates
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
