package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
	"github.com/gigline/gigline-backend-go/internal/domain/shift"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/go-chi/jwtauth/v5"
)

// The fakes below back the service tests with in-memory state. The
// transaction manager is a passthrough: the state machines under test are
// exercised for ordering and outcomes, not for SQL semantics.

type fakeTxManager struct{}

func (fakeTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAssignmentRepo struct {
	assignments map[string]*assignment.ShiftAssignment
	lockCalls   int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*assignment.ShiftAssignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	if a.ID == "" {
		a.ID = "assignment-" + time.Now().Format("150405.000000")
	}
	copied := a
	r.assignments[a.ID] = &copied
	return a, nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string) (assignment.ShiftAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
	}
	return *a, nil
}

func (r *fakeAssignmentRepo) GetByWorkerAndShift(_ context.Context, workerID, shiftID string) (assignment.ShiftAssignment, error) {
	for _, a := range r.assignments {
		if a.WorkerID == workerID && a.ShiftID == shiftID {
			return *a, nil
		}
	}
	return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) ListByWorker(_ context.Context, workerID string, limit, offset int) ([]assignment.ShiftAssignment, int64, error) {
	var out []assignment.ShiftAssignment
	for _, a := range r.assignments {
		if a.WorkerID == workerID {
			out = append(out, *a)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeAssignmentRepo) CountActiveByShift(_ context.Context, shiftID string) (int, error) {
	n := 0
	for _, a := range r.assignments {
		if a.ShiftID == shiftID && a.Status != assignment.StatusCancelled {
			n++
		}
	}
	return n, nil
}

func (r *fakeAssignmentRepo) CountOutstandingByShift(_ context.Context, shiftID string) (int, error) {
	n := 0
	for _, a := range r.assignments {
		if a.ShiftID != shiftID {
			continue
		}
		if a.Status == assignment.StatusAssigned || a.Status == assignment.StatusCheckedIn {
			n++
		}
	}
	return n, nil
}

func (r *fakeAssignmentRepo) IncrementClockInAttempts(_ context.Context, id string, failureReason *string) error {
	a, ok := r.assignments[id]
	if !ok {
		return assignment.ErrAssignmentNotFound
	}
	a.ClockInAttempts++
	if failureReason != nil {
		a.LastFailureReason = failureReason
	}
	return nil
}

func (r *fakeAssignmentRepo) RecordClockIn(_ context.Context, id string, rec assignment.ClockInRecord) (bool, error) {
	a, ok := r.assignments[id]
	if !ok {
		return false, assignment.ErrAssignmentNotFound
	}
	if a.Status != assignment.StatusAssigned {
		return false, nil
	}
	a.Status = assignment.StatusCheckedIn
	a.ClockInAt = &rec.At
	a.ClockInLatitude = &rec.Latitude
	a.ClockInLongitude = &rec.Longitude
	a.VerificationMethod = &rec.Method
	a.VerificationConfidence = rec.Confidence
	a.LivenessPassed = rec.LivenessPassed
	a.WasLate = rec.WasLate
	a.LatenessFlagged = rec.LatenessFlagged
	if rec.WasLate {
		late := rec.LateMinutes
		a.LateMinutes = &late
	}
	a.LastFailureReason = nil
	return true, nil
}

func (r *fakeAssignmentRepo) RecordClockOut(_ context.Context, id string, rec assignment.ClockOutRecord) (bool, error) {
	a, ok := r.assignments[id]
	if !ok {
		return false, assignment.ErrAssignmentNotFound
	}
	if a.Status != assignment.StatusCheckedIn {
		return false, nil
	}
	a.Status = assignment.StatusCheckedOut
	a.ClockOutAt = &rec.At
	a.ClockOutLatitude = &rec.Latitude
	a.ClockOutLongitude = &rec.Longitude
	a.Breaks = rec.Breaks
	h := rec.Hours
	a.GrossHours = &h.GrossHours
	a.BreakDeductionHours = &h.BreakDeductionHours
	a.NetHoursWorked = &h.NetHoursWorked
	a.BillableHours = &h.BillableHours
	a.OvertimeHours = &h.OvertimeHours
	a.OvertimeApproved = &h.OvertimeApproved
	a.EarlyDeparture = h.EarlyDeparture
	if h.EarlyDeparture {
		m := h.EarlyDepartureMinutes
		a.EarlyDepartureMinutes = &m
	}
	a.BreakCompliant = &h.BreakCompliant
	payment := rec.PaymentStatus
	a.PaymentStatus = &payment
	return true, nil
}

func (r *fakeAssignmentRepo) UpdateStatus(_ context.Context, id string, from, to assignment.Status) (bool, error) {
	a, ok := r.assignments[id]
	if !ok {
		return false, assignment.ErrAssignmentNotFound
	}
	if a.Status != from || !assignment.CanTransition(from, to) {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (r *fakeAssignmentRepo) Archive(_ context.Context, id string, at time.Time) error {
	a, ok := r.assignments[id]
	if !ok {
		return assignment.ErrAssignmentNotFound
	}
	a.ArchivedAt = &at
	return nil
}

func (r *fakeAssignmentRepo) LockShift(_ context.Context, _ string) error {
	r.lockCalls++
	return nil
}

type fakeShiftRepo struct {
	shifts map[string]*shift.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]*shift.Shift)}
}

func (r *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	copied := s
	r.shifts[s.ID] = &copied
	return s, nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return *s, nil
}

func (r *fakeShiftRepo) ListOpen(_ context.Context, _, _ int) ([]shift.Shift, int64, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.Status == shift.StatusOpen {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeShiftRepo) MarkInProgress(_ context.Context, id string, at time.Time) (bool, error) {
	s, ok := r.shifts[id]
	if !ok {
		return false, shift.ErrShiftNotFound
	}
	if s.Status != shift.StatusOpen {
		return false, nil
	}
	s.Status = shift.StatusInProgress
	s.StartedAt = &at
	return true, nil
}

func (r *fakeShiftRepo) MarkCompleted(_ context.Context, id string) (bool, error) {
	s, ok := r.shifts[id]
	if !ok {
		return false, shift.ErrShiftNotFound
	}
	if s.Status != shift.StatusInProgress {
		return false, nil
	}
	s.Status = shift.StatusCompleted
	return true, nil
}

type fakeWorkerRepo struct {
	workers       map[string]*worker.Worker
	lastCompleted map[string]time.Time
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{
		workers:       make(map[string]*worker.Worker),
		lastCompleted: make(map[string]time.Time),
	}
}

func (r *fakeWorkerRepo) Create(_ context.Context, w worker.Worker) (worker.Worker, error) {
	copied := w
	r.workers[w.ID] = &copied
	return w, nil
}

func (r *fakeWorkerRepo) GetByID(_ context.Context, id string) (worker.Worker, error) {
	w, ok := r.workers[id]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return *w, nil
}

func (r *fakeWorkerRepo) GetByEmail(_ context.Context, email string) (worker.Worker, error) {
	for _, w := range r.workers {
		if w.Email == email {
			return *w, nil
		}
	}
	return worker.Worker{}, worker.ErrWorkerNotFound
}

func (r *fakeWorkerRepo) SetLastCompletedShift(_ context.Context, workerID string, completedAt time.Time) error {
	r.lastCompleted[workerID] = completedAt
	return nil
}

type reliabilityAdjustment struct {
	Delta  float64
	Reason string
}

type fakeReliabilityStore struct {
	profiles    map[string]*worker.ReliabilityProfile
	adjustments []reliabilityAdjustment
}

func newFakeReliabilityStore() *fakeReliabilityStore {
	return &fakeReliabilityStore{profiles: make(map[string]*worker.ReliabilityProfile)}
}

func (r *fakeReliabilityStore) profile(workerID string) *worker.ReliabilityProfile {
	p, ok := r.profiles[workerID]
	if !ok {
		p = &worker.ReliabilityProfile{WorkerID: workerID, Score: worker.ReliabilityScoreInitial}
		r.profiles[workerID] = p
	}
	return p
}

func (r *fakeReliabilityStore) Get(_ context.Context, workerID string) (worker.ReliabilityProfile, error) {
	return *r.profile(workerID), nil
}

func (r *fakeReliabilityStore) Adjust(_ context.Context, workerID string, delta float64, reason string) (worker.ReliabilityProfile, error) {
	p := r.profile(workerID)
	p.Score += delta
	if p.Score < worker.ReliabilityScoreMin {
		p.Score = worker.ReliabilityScoreMin
	}
	if p.Score > worker.ReliabilityScoreMax {
		p.Score = worker.ReliabilityScoreMax
	}
	r.adjustments = append(r.adjustments, reliabilityAdjustment{Delta: delta, Reason: reason})
	return *p, nil
}

func (r *fakeReliabilityStore) IncrementLateArrival(_ context.Context, workerID string) error {
	r.profile(workerID).LateArrivalCount++
	return nil
}

func (r *fakeReliabilityStore) IncrementEarlyDeparture(_ context.Context, workerID string) error {
	r.profile(workerID).EarlyDepartureCount++
	return nil
}

type fakeVerifier struct {
	outcome identity.Outcome
	err     error
}

func (v *fakeVerifier) VerifyClockIn(_ context.Context, _ string, _ identity.Capture, _ bool) (identity.Outcome, error) {
	return v.outcome, v.err
}

type sinkEvent struct {
	Event    string
	WorkerID *string
	Payload  map[string]any
}

type fakeSink struct {
	events []sinkEvent
}

func (s *fakeSink) Notify(_ context.Context, event string, workerID *string, payload map[string]any) {
	s.events = append(s.events, sinkEvent{Event: event, WorkerID: workerID, Payload: payload})
}

func (s *fakeSink) eventNames() []string {
	names := make([]string, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.Event)
	}
	return names
}

// authedContext builds a request context carrying the claims the service
// reads, the same way the router's token verifier would.
func authedContext(t *testing.T, workerID, role string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]any{
		"worker_id": workerID,
		"role":      role,
		"type":      "access",
	})
	if err != nil {
		t.Fatalf("failed to encode test token: %v", err)
	}
	return jwtauth.NewContext(context.Background(), token, nil)
}

type attendanceFixture struct {
	svc         assignment.AttendanceService
	assignments *fakeAssignmentRepo
	shifts      *fakeShiftRepo
	workers     *fakeWorkerRepo
	reliability *fakeReliabilityStore
	verifier    *fakeVerifier
	sink        *fakeSink
}

func newAttendanceFixture() *attendanceFixture {
	f := &attendanceFixture{
		assignments: newFakeAssignmentRepo(),
		shifts:      newFakeShiftRepo(),
		workers:     newFakeWorkerRepo(),
		reliability: newFakeReliabilityStore(),
		verifier:    &fakeVerifier{outcome: identity.Outcome{Verified: true, Method: string(assignment.MethodFaceBiometric)}},
		sink:        &fakeSink{},
	}
	f.svc = NewAttendanceService(
		fakeTxManager{},
		f.assignments,
		f.shifts,
		f.workers,
		f.reliability,
		f.verifier,
		f.sink,
		config.AttendanceConfig{
			DefaultGeofenceRadiusMeters: 100,
			DefaultEarlyClockInMinutes:  15,
			DefaultLateGraceMinutes:     15,
			LatenessFlagMinutes:         30,
		},
		assignment.DefaultHoursPolicy(),
	)
	return f
}

// seedAssignment creates a shift and an assigned worker whose scheduled
// window starts at the given offset from now.
func (f *attendanceFixture) seedAssignment(workerID string, startIn, duration time.Duration) *assignment.ShiftAssignment {
	now := time.Now().UTC()
	start := now.Add(startIn)
	end := start.Add(duration)

	sh := shift.Shift{
		ID:             "shift-1",
		BusinessID:     "business-1",
		Title:          "Evening service",
		Latitude:       -6.2000,
		Longitude:      106.8000,
		ScheduledDate:  start.Truncate(24 * time.Hour),
		ScheduledStart: start,
		ScheduledEnd:   end,
		Capacity:       3,
		Status:         shift.StatusOpen,
	}
	f.shifts.shifts[sh.ID] = &sh

	a := &assignment.ShiftAssignment{
		ID:             "assignment-1",
		WorkerID:       workerID,
		ShiftID:        sh.ID,
		Status:         assignment.StatusAssigned,
		ScheduledDate:  sh.ScheduledDate,
		ScheduledStart: start,
		ScheduledEnd:   end,
	}
	f.assignments.assignments[a.ID] = a
	return a
}
