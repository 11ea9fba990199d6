package worker

import (
	"time"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

type Worker struct {
	ID                   string
	Email                string
	PasswordHash         string
	FullName             string
	Role                 Role
	Skills               []string
	HomeLatitude         *float64
	HomeLongitude        *float64
	AverageRating        *float64
	LastCompletedShiftAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ReliabilityProfile is the worker's running attendance standing. The score
// is bounded to [0, 100]; the counters are lifetime totals and only ever grow.
type ReliabilityProfile struct {
	WorkerID            string
	Score               float64
	LateArrivalCount    int
	EarlyDepartureCount int
	UpdatedAt           time.Time
}

const (
	ReliabilityScoreMin = 0.0
	ReliabilityScoreMax = 100.0

	// Score for workers with no attendance history yet.
	ReliabilityScoreInitial = 80.0
)
