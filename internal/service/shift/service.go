package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
}

func NewShiftService(shiftRepo shift.ShiftRepository) shift.ShiftService {
	return &ShiftServiceImpl{ShiftRepository: shiftRepo}
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	businessID, ok := claims["worker_id"].(string)
	if !ok || businessID == "" {
		return shift.ShiftResponse{}, fmt.Errorf("worker_id claim is missing or invalid")
	}

	scheduledDate, _ := time.Parse("2006-01-02", req.ScheduledDate)
	scheduledStart, _ := validator.IsValidDateTime(req.ScheduledStart)
	scheduledEnd, _ := validator.IsValidDateTime(req.ScheduledEnd)

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		BusinessID:              businessID,
		Title:                   req.Title,
		Latitude:                req.Latitude,
		Longitude:               req.Longitude,
		ScheduledDate:           scheduledDate,
		ScheduledStart:          scheduledStart.UTC(),
		ScheduledEnd:            scheduledEnd.UTC(),
		GeofenceRadiusMeters:    req.GeofenceRadiusMeters,
		EarlyClockInMinutes:     req.EarlyClockInMinutes,
		LateGraceMinutes:        req.LateGraceMinutes,
		RequireFaceVerification: req.RequireFaceVerification,
		RequiredSkills:          req.RequiredSkills,
		Capacity:                req.Capacity,
		Status:                  shift.StatusOpen,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return shift.MapToResponse(created), nil
}

// Get implements shift.ShiftService.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.MapToResponse(sh), nil
}

// ListOpen implements shift.ShiftService.
func (s *ShiftServiceImpl) ListOpen(ctx context.Context, limit, offset int) (shift.ListShiftsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	shifts, total, err := s.ShiftRepository.ListOpen(ctx, limit, offset)
	if err != nil {
		return shift.ListShiftsResponse{}, fmt.Errorf("failed to list open shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.MapToResponse(sh))
	}

	return shift.ListShiftsResponse{
		TotalCount: total,
		Shifts:     responses,
	}, nil
}
