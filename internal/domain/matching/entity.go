package matching

import (
	"time"
)

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// ShiftApplication is a worker's bid on an open shift. At most one
// non-withdrawn application may exist per (worker, shift) pair.
type ShiftApplication struct {
	ID       string
	WorkerID string
	ShiftID  string
	Status   ApplicationStatus

	MatchScore       float64
	SkillScore       float64
	ProximityScore   float64
	ReliabilityScore float64
	RatingScore      float64
	RecencyScore     float64

	DistanceKm   *float64
	RankPosition *int

	AppliedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoreBreakdown carries the five sub-scores and their plain sum. The
// composite is intentionally not normalized, so its natural range is
// 0 to SkillMax+ProximityMax+ReliabilityMax+RatingMax+RecencyMax.
type ScoreBreakdown struct {
	Skill       float64
	Proximity   float64
	Reliability float64
	Rating      float64
	Recency     float64
	DistanceKm  *float64
}

func (b ScoreBreakdown) Composite() float64 {
	return b.Skill + b.Proximity + b.Reliability + b.Rating + b.Recency
}
