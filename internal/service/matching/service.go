package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type ApplicationServiceImpl struct {
	db database.TxManager
	matching.ApplicationRepository
	shift.ShiftRepository
	worker.WorkerRepository
	reliability worker.ReliabilityStore
	assignments assignment.AssignmentRepository
	scorer      *Scorer
	sink        notification.Sink
}

func NewApplicationService(
	db database.TxManager,
	applicationRepo matching.ApplicationRepository,
	shiftRepo shift.ShiftRepository,
	workerRepo worker.WorkerRepository,
	reliabilityStore worker.ReliabilityStore,
	assignmentRepo assignment.AssignmentRepository,
	scorer *Scorer,
	sink notification.Sink,
) matching.ApplicationService {
	return &ApplicationServiceImpl{
		db:                    db,
		ApplicationRepository: applicationRepo,
		ShiftRepository:       shiftRepo,
		WorkerRepository:      workerRepo,
		reliability:           reliabilityStore,
		assignments:           assignmentRepo,
		scorer:                scorer,
		sink:                  sink,
	}
}

func workerIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	workerID, ok := claims["worker_id"].(string)
	if !ok || workerID == "" {
		return "", fmt.Errorf("worker_id claim is missing or invalid")
	}
	return workerID, nil
}

// Apply implements matching.ApplicationService.
func (s *ApplicationServiceImpl) Apply(ctx context.Context, req matching.ApplyRequest) (matching.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return matching.ApplicationResponse{}, err
	}

	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return matching.ApplicationResponse{}, err
	}

	sh, err := s.ShiftRepository.GetByID(ctx, req.ShiftID)
	if err != nil {
		return matching.ApplicationResponse{}, err
	}
	if sh.Status != shift.StatusOpen {
		return matching.ApplicationResponse{}, shift.ErrShiftNotOpen
	}

	w, err := s.WorkerRepository.GetByID(ctx, workerID)
	if err != nil {
		return matching.ApplicationResponse{}, err
	}

	profile, err := s.reliability.Get(ctx, workerID)
	if err != nil {
		return matching.ApplicationResponse{}, fmt.Errorf("failed to get reliability profile: %w", err)
	}

	now := time.Now().UTC()
	breakdown := s.scorer.Score(w, profile.Score, sh, now)

	var created matching.ShiftApplication

	// The insert and the re-rank are one atomic read-modify-write over the
	// shift's pending set, serialized by the per-shift lock.
	err = s.db.InTx(ctx, func(ctx context.Context) error {
		if err := s.ApplicationRepository.LockShift(ctx, sh.ID); err != nil {
			return fmt.Errorf("failed to lock shift: %w", err)
		}

		_, err := s.ApplicationRepository.GetActiveByWorkerAndShift(ctx, workerID, sh.ID)
		if err == nil {
			return matching.ErrDuplicateApplication
		}
		if !errors.Is(err, matching.ErrApplicationNotFound) {
			return fmt.Errorf("failed to check existing application: %w", err)
		}

		created, err = s.ApplicationRepository.Create(ctx, matching.ShiftApplication{
			WorkerID:         workerID,
			ShiftID:          sh.ID,
			Status:           matching.StatusPending,
			MatchScore:       breakdown.Composite(),
			SkillScore:       breakdown.Skill,
			ProximityScore:   breakdown.Proximity,
			ReliabilityScore: breakdown.Reliability,
			RatingScore:      breakdown.Rating,
			RecencyScore:     breakdown.Recency,
			DistanceKm:       breakdown.DistanceKm,
			AppliedAt:        now,
		})
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}

		rank, err := s.rerank(ctx, sh.ID)
		if err != nil {
			return err
		}
		if pos, ok := rank[created.ID]; ok {
			created.RankPosition = &pos
		}
		return nil
	})
	if err != nil {
		return matching.ApplicationResponse{}, err
	}

	s.sink.Notify(ctx, notification.EventApplicationReceived, &workerID, map[string]any{
		"application_id": created.ID,
		"shift_id":       sh.ID,
		"match_score":    created.MatchScore,
	})

	return mapApplicationToResponse(created), nil
}

// rerank recomputes 1-based rank positions for the shift's pending set.
// Must run inside a transaction holding the shift lock.
func (s *ApplicationServiceImpl) rerank(ctx context.Context, shiftID string) (map[string]int, error) {
	pending, err := s.ApplicationRepository.ListPendingByShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}

	updates := Rank(pending)
	if err := s.ApplicationRepository.UpdateRankPositions(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to persist rank positions: %w", err)
	}

	positions := make(map[string]int, len(updates))
	for _, u := range updates {
		positions[u.ApplicationID] = u.Position
	}
	return positions, nil
}

// Withdraw implements matching.ApplicationService.
func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, applicationID string) error {
	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return err
	}

	app, err := s.ApplicationRepository.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.WorkerID != workerID {
		return matching.ErrNotApplicationOwner
	}
	if app.Status != matching.StatusPending {
		return matching.ErrApplicationNotPending
	}

	return s.db.InTx(ctx, func(ctx context.Context) error {
		if err := s.ApplicationRepository.LockShift(ctx, app.ShiftID); err != nil {
			return fmt.Errorf("failed to lock shift: %w", err)
		}
		if err := s.ApplicationRepository.UpdateStatus(ctx, app.ID, matching.StatusWithdrawn); err != nil {
			return fmt.Errorf("failed to withdraw application: %w", err)
		}
		_, err := s.rerank(ctx, app.ShiftID)
		return err
	})
}

// Accept implements matching.ApplicationService.
func (s *ApplicationServiceImpl) Accept(ctx context.Context, applicationID string) (matching.ApplicationResponse, error) {
	app, err := s.ApplicationRepository.GetByID(ctx, applicationID)
	if err != nil {
		return matching.ApplicationResponse{}, err
	}
	if app.Status != matching.StatusPending {
		return matching.ApplicationResponse{}, matching.ErrApplicationNotPending
	}

	sh, err := s.ShiftRepository.GetByID(ctx, app.ShiftID)
	if err != nil {
		return matching.ApplicationResponse{}, err
	}
	if sh.Status != shift.StatusOpen && sh.Status != shift.StatusInProgress {
		return matching.ApplicationResponse{}, shift.ErrShiftNotOpen
	}

	err = s.db.InTx(ctx, func(ctx context.Context) error {
		if err := s.ApplicationRepository.LockShift(ctx, sh.ID); err != nil {
			return fmt.Errorf("failed to lock shift: %w", err)
		}

		active, err := s.assignments.CountActiveByShift(ctx, sh.ID)
		if err != nil {
			return fmt.Errorf("failed to count assignments: %w", err)
		}
		if active >= sh.Capacity {
			return shift.ErrShiftFull
		}

		if err := s.ApplicationRepository.UpdateStatus(ctx, app.ID, matching.StatusAccepted); err != nil {
			return fmt.Errorf("failed to accept application: %w", err)
		}

		_, err = s.assignments.Create(ctx, assignment.ShiftAssignment{
			WorkerID:       app.WorkerID,
			ShiftID:        sh.ID,
			ApplicationID:  &app.ID,
			Status:         assignment.StatusAssigned,
			ScheduledDate:  sh.ScheduledDate,
			ScheduledStart: sh.ScheduledStart,
			ScheduledEnd:   sh.ScheduledEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		// The last slot closes the door on everyone still pending.
		if active+1 >= sh.Capacity {
			if err := s.ApplicationRepository.RejectOtherPending(ctx, sh.ID, app.ID); err != nil {
				return fmt.Errorf("failed to reject remaining applications: %w", err)
			}
		}

		_, err = s.rerank(ctx, sh.ID)
		return err
	})
	if err != nil {
		return matching.ApplicationResponse{}, err
	}

	app.Status = matching.StatusAccepted
	s.sink.Notify(ctx, notification.EventApplicationAccepted, &app.WorkerID, map[string]any{
		"application_id": app.ID,
		"shift_id":       sh.ID,
	})

	return mapApplicationToResponse(app), nil
}

// ListForShift implements matching.ApplicationService.
func (s *ApplicationServiceImpl) ListForShift(ctx context.Context, shiftID string) (matching.ListApplicationsResponse, error) {
	pending, err := s.ApplicationRepository.ListPendingByShift(ctx, shiftID)
	if err != nil {
		return matching.ListApplicationsResponse{}, fmt.Errorf("failed to list applications: %w", err)
	}

	responses := make([]matching.ApplicationResponse, 0, len(pending))
	for _, app := range pending {
		responses = append(responses, mapApplicationToResponse(app))
	}

	return matching.ListApplicationsResponse{
		TotalCount:   int64(len(responses)),
		Applications: responses,
	}, nil
}

// MyApplications implements matching.ApplicationService.
func (s *ApplicationServiceImpl) MyApplications(ctx context.Context, limit, offset int) (matching.ListApplicationsResponse, error) {
	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return matching.ListApplicationsResponse{}, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	apps, total, err := s.ApplicationRepository.ListByWorker(ctx, workerID, limit, offset)
	if err != nil {
		return matching.ListApplicationsResponse{}, fmt.Errorf("failed to list applications: %w", err)
	}

	responses := make([]matching.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, mapApplicationToResponse(app))
	}

	return matching.ListApplicationsResponse{
		TotalCount:   total,
		Applications: responses,
	}, nil
}

func mapApplicationToResponse(app matching.ShiftApplication) matching.ApplicationResponse {
	var distanceKm *float64
	if app.DistanceKm != nil {
		rounded := math.Round(*app.DistanceKm*100) / 100
		distanceKm = &rounded
	}

	return matching.ApplicationResponse{
		ID:               app.ID,
		WorkerID:         app.WorkerID,
		ShiftID:          app.ShiftID,
		Status:           string(app.Status),
		MatchScore:       app.MatchScore,
		SkillScore:       app.SkillScore,
		ProximityScore:   app.ProximityScore,
		ReliabilityScore: app.ReliabilityScore,
		RatingScore:      app.RatingScore,
		RecencyScore:     app.RecencyScore,
		DistanceKm:       distanceKm,
		RankPosition:     app.RankPosition,
		AppliedAt:        app.AppliedAt.UTC().Format(time.RFC3339),
	}
}
