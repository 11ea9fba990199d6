package matching

import (
	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
)

// ========================================
// APPLICATION DTOs
// ========================================

type ApplyRequest struct {
	ShiftID string `json:"shift_id"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApplicationResponse struct {
	ID               string   `json:"id"`
	WorkerID         string   `json:"worker_id"`
	ShiftID          string   `json:"shift_id"`
	Status           string   `json:"status"`
	MatchScore       float64  `json:"match_score"`
	SkillScore       float64  `json:"skill_score"`
	ProximityScore   float64  `json:"proximity_score"`
	ReliabilityScore float64  `json:"reliability_score"`
	RatingScore      float64  `json:"rating_score"`
	RecencyScore     float64  `json:"recency_score"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	RankPosition     *int     `json:"rank_position,omitempty"`
	AppliedAt        string   `json:"applied_at"`
}

type ListApplicationsResponse struct {
	TotalCount   int64                 `json:"total_count"`
	Applications []ApplicationResponse `json:"applications"`
}
