package matching

import (
	"testing"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func testShift(requiredSkills ...string) shift.Shift {
	return shift.Shift{
		ID:             "shift-1",
		Latitude:       -6.2000,
		Longitude:      106.8000,
		RequiredSkills: requiredSkills,
	}
}

func TestScore_SkillProportional(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	now := time.Now().UTC()

	w := worker.Worker{ID: "w", Skills: []string{"barista", "cashier"}}

	b := s.Score(w, 80, testShift("barista", "cashier", "cook", "driver"), now)
	assert.Equal(t, 20.0, b.Skill)

	b = s.Score(w, 80, testShift("barista", "cashier"), now)
	assert.Equal(t, 40.0, b.Skill)
}

func TestScore_NoRequiredSkillsGivesMax(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	b := s.Score(worker.Worker{ID: "w"}, 80, testShift(), time.Now().UTC())
	assert.Equal(t, 40.0, b.Skill)
}

func TestScore_ProximityBands(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	now := time.Now().UTC()
	sh := testShift()

	tests := []struct {
		name     string
		latShift float64 // degrees of latitude away, ~111 km per degree
		want     float64
	}{
		{"within 5km", 0.02, 25},
		{"within 10km", 0.08, 20},
		{"within 25km", 0.2, 15},
		{"within 50km", 0.4, 10},
		{"past the last band", 1.0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := worker.Worker{
				ID:            "w",
				HomeLatitude:  floatPtr(sh.Latitude + tt.latShift),
				HomeLongitude: floatPtr(sh.Longitude),
			}
			b := s.Score(w, 80, sh, now)
			assert.Equal(t, tt.want, b.Proximity)
			require.NotNil(t, b.DistanceKm)
		})
	}
}

func TestScore_NoLocationIsNeutral(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	b := s.Score(worker.Worker{ID: "w"}, 80, testShift(), time.Now().UTC())
	assert.Equal(t, 15.0, b.Proximity)
	assert.Nil(t, b.DistanceKm)
}

func TestScore_RatingBands(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	now := time.Now().UTC()
	sh := testShift()

	tests := []struct {
		rating *float64
		want   float64
	}{
		{floatPtr(4.8), 5},
		{floatPtr(4.2), 4},
		{floatPtr(3.7), 3},
		{floatPtr(3.0), 2},
		{floatPtr(2.1), 1},
		{nil, 1},
	}

	for _, tt := range tests {
		b := s.Score(worker.Worker{ID: "w", AverageRating: tt.rating}, 80, sh, now)
		assert.Equal(t, tt.want, b.Rating)
	}
}

func TestScore_RecencyBands(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	now := time.Now().UTC()
	sh := testShift()

	tests := []struct {
		daysAgo int
		want    float64
	}{
		{3, 10},
		{20, 8},
		{60, 6},
		{150, 4},
		{365, 2},
	}

	for _, tt := range tests {
		last := now.AddDate(0, 0, -tt.daysAgo)
		b := s.Score(worker.Worker{ID: "w", LastCompletedShiftAt: timePtr(last)}, 80, sh, now)
		assert.Equal(t, tt.want, b.Recency)
	}

	// Never worked is neutral, not the floor.
	b := s.Score(worker.Worker{ID: "w"}, 80, sh, now)
	assert.Equal(t, 5.0, b.Recency)
}

func TestScore_ReliabilityClamped(t *testing.T) {
	t.Parallel()

	s := NewScorer(matching.DefaultScoreWeights())
	sh := testShift()
	now := time.Now().UTC()

	b := s.Score(worker.Worker{ID: "w"}, 120, sh, now)
	assert.Equal(t, 100.0, b.Reliability)

	b = s.Score(worker.Worker{ID: "w"}, -3, sh, now)
	assert.Equal(t, 0.0, b.Reliability)
}

func TestScore_CompositeBounds(t *testing.T) {
	t.Parallel()

	weights := matching.DefaultScoreWeights()
	s := NewScorer(weights)
	now := time.Now().UTC()
	sh := testShift("barista")

	best := worker.Worker{
		ID:                   "w",
		Skills:               []string{"barista"},
		HomeLatitude:         floatPtr(sh.Latitude),
		HomeLongitude:        floatPtr(sh.Longitude),
		AverageRating:        floatPtr(5.0),
		LastCompletedShiftAt: timePtr(now.AddDate(0, 0, -1)),
	}
	b := s.Score(best, 100, sh, now)
	assert.Equal(t, weights.CompositeMax(), b.Composite())
	assert.Equal(t, 180.0, b.Composite())

	worst := worker.Worker{
		ID:                   "w",
		HomeLatitude:         floatPtr(sh.Latitude + 2),
		HomeLongitude:        floatPtr(sh.Longitude),
		AverageRating:        floatPtr(1.0),
		LastCompletedShiftAt: timePtr(now.AddDate(-2, 0, 0)),
	}
	b = s.Score(worst, 0, sh, now)
	assert.Equal(t, 3.0, b.Composite())
}

func TestRank_OrderAndTieBreak(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	apps := []matching.ShiftApplication{
		{ID: "late-high", MatchScore: 150, AppliedAt: base.Add(2 * time.Hour)},
		{ID: "early-high", MatchScore: 150, AppliedAt: base},
		{ID: "low", MatchScore: 90, AppliedAt: base.Add(-1 * time.Hour)},
		{ID: "top", MatchScore: 170, AppliedAt: base.Add(3 * time.Hour)},
	}

	updates := Rank(apps)
	require.Len(t, updates, 4)

	assert.Equal(t, matching.RankUpdate{ApplicationID: "top", Position: 1}, updates[0])
	// Equal scores rank by earliest application.
	assert.Equal(t, matching.RankUpdate{ApplicationID: "early-high", Position: 2}, updates[1])
	assert.Equal(t, matching.RankUpdate{ApplicationID: "late-high", Position: 3}, updates[2])
	assert.Equal(t, matching.RankUpdate{ApplicationID: "low", Position: 4}, updates[3])
}

func TestRank_Idempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	apps := []matching.ShiftApplication{
		{ID: "a", MatchScore: 120, AppliedAt: base},
		{ID: "b", MatchScore: 120, AppliedAt: base.Add(time.Minute)},
		{ID: "c", MatchScore: 110, AppliedAt: base},
	}

	first := Rank(apps)
	second := Rank(apps)
	assert.Equal(t, first, second)

	// The input order must not influence the outcome.
	reversed := []matching.ShiftApplication{apps[2], apps[1], apps[0]}
	third := Rank(reversed)
	assert.Equal(t, first, third)
}
