package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	db database.TxManager
	assignment.AssignmentRepository
	shifts      shift.ShiftRepository
	workers     worker.WorkerRepository
	reliability worker.ReliabilityStore
	verifier    identity.Verifier
	sink        notification.Sink
	cfg         config.AttendanceConfig
	policy      assignment.HoursPolicy
}

func NewAttendanceService(
	db database.TxManager,
	assignmentRepo assignment.AssignmentRepository,
	shiftRepo shift.ShiftRepository,
	workerRepo worker.WorkerRepository,
	reliabilityStore worker.ReliabilityStore,
	verifier identity.Verifier,
	sink notification.Sink,
	cfg config.AttendanceConfig,
	policy assignment.HoursPolicy,
) assignment.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AssignmentRepository: assignmentRepo,
		shifts:               shiftRepo,
		workers:              workerRepo,
		reliability:          reliabilityStore,
		verifier:             verifier,
		sink:                 sink,
		cfg:                  cfg,
		policy:               policy,
	}
}

func callerFromContext(ctx context.Context) (workerID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	workerID, ok := claims["worker_id"].(string)
	if !ok || workerID == "" {
		return "", "", fmt.Errorf("worker_id claim is missing or invalid")
	}
	role, _ = claims["role"].(string)
	return workerID, role, nil
}

// Get implements assignment.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (assignment.AssignmentResponse, error) {
	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	a, err := s.AssignmentRepository.GetByID(ctx, id)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	if role == string(worker.RoleWorker) && a.WorkerID != callerID {
		return assignment.AssignmentResponse{}, assignment.ErrNotAssignmentOwner
	}

	return mapAssignmentToResponse(a), nil
}

// MyAssignments implements assignment.AttendanceService.
func (s *AttendanceServiceImpl) MyAssignments(ctx context.Context, page, limit int) (assignment.ListAssignmentsResponse, error) {
	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return assignment.ListAssignmentsResponse{}, err
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	assignments, total, err := s.AssignmentRepository.ListByWorker(ctx, callerID, limit, offset)
	if err != nil {
		return assignment.ListAssignmentsResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]assignment.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapAssignmentToResponse(a))
	}

	return assignment.ListAssignmentsResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Assignments: responses,
	}, nil
}

// earlyWindowMinutes, graceMinutes and geofenceRadius resolve the per-shift
// policy values, falling back to deployment defaults when the shift does not
// declare its own.
func (s *AttendanceServiceImpl) earlyWindowMinutes(sh shift.Shift) int {
	if sh.EarlyClockInMinutes > 0 {
		return sh.EarlyClockInMinutes
	}
	return s.cfg.DefaultEarlyClockInMinutes
}

func (s *AttendanceServiceImpl) graceMinutes(sh shift.Shift) int {
	if sh.LateGraceMinutes > 0 {
		return sh.LateGraceMinutes
	}
	return s.cfg.DefaultLateGraceMinutes
}

func (s *AttendanceServiceImpl) geofenceRadius(sh shift.Shift) float64 {
	if sh.GeofenceRadiusMeters > 0 {
		return sh.GeofenceRadiusMeters
	}
	return s.cfg.DefaultGeofenceRadiusMeters
}

func mapAssignmentToResponse(a assignment.ShiftAssignment) assignment.AssignmentResponse {
	resp := assignment.AssignmentResponse{
		ID:             a.ID,
		WorkerID:       a.WorkerID,
		ShiftID:        a.ShiftID,
		Status:         string(a.Status),
		ScheduledDate:  a.ScheduledDate.Format("2006-01-02"),
		ScheduledStart: a.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:   a.ScheduledEnd.UTC().Format(time.RFC3339),

		ClockInAt:  assignment.FormatTime(a.ClockInAt),
		ClockOutAt: assignment.FormatTime(a.ClockOutAt),

		VerificationConfidence: a.VerificationConfidence,
		LivenessPassed:         a.LivenessPassed,

		WasLate:               a.WasLate,
		LatenessFlagged:       a.LatenessFlagged,
		LateMinutes:           a.LateMinutes,
		EarlyDeparture:        a.EarlyDeparture,
		EarlyDepartureMinutes: a.EarlyDepartureMinutes,

		GrossHours:          a.GrossHours,
		BreakDeductionHours: a.BreakDeductionHours,
		NetHoursWorked:      a.NetHoursWorked,
		BillableHours:       a.BillableHours,
		OvertimeHours:       a.OvertimeHours,

		ClockInAttempts: a.ClockInAttempts,
	}

	if a.VerificationMethod != nil {
		method := string(*a.VerificationMethod)
		resp.VerificationMethod = &method
	}
	if a.PaymentStatus != nil {
		status := string(*a.PaymentStatus)
		resp.PaymentStatus = &status
	}

	return resp
}
