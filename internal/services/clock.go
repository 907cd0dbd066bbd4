package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewclock-backend/internal/models"
	"crewclock-backend/internal/repository"
)

// SessionStore is the slice of the repository the lifecycle engine needs.
// *repository.SessionRepo satisfies it.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetOpen(ctx context.Context, userID uuid.UUID, workDate string) (*models.Session, error)
	Close(ctx context.Context, sessionID uuid.UUID, outTime time.Time) (int64, error)
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, workDate string) ([]*models.Session, error)
}

// ClockService is the session lifecycle engine: one open session per worker
// per date, clock-in and clock-out transitions, timer resume.
type ClockService struct {
	sessions  SessionStore
	location  *LocationService
	timesheet *TimesheetService
	status    *StatusService
	publisher *ClockPublisher
	loc       *time.Location
	now       func() time.Time
}

func NewClockService(
	sessions SessionStore,
	location *LocationService,
	timesheet *TimesheetService,
	status *StatusService,
	publisher *ClockPublisher,
	loc *time.Location,
) *ClockService {
	return &ClockService{
		sessions:  sessions,
		location:  location,
		timesheet: timesheet,
		status:    status,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

// ClockIn opens a session for today. Sundays are rejected before any store
// access, and a date carries at most one clock-in/out pair: an open session
// means the worker is already on the clock, a closed one means the workday
// is done. The unique-open-session index backs the same rule atomically
// against concurrent double-submits.
func (s *ClockService) ClockIn(ctx context.Context, userID uuid.UUID, displayName string, fix *models.GeoPoint) (*models.Session, error) {
	now := s.now()
	if now.In(s.loc).Weekday() == time.Sunday {
		return nil, &ForbiddenError{Message: "Clock-in is not allowed on Sunday"}
	}

	today := WorkDate(now, s.loc)

	existing, err := s.sessions.ListByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	for _, session := range existing {
		if session.IsOpen() {
			return nil, &ConflictError{Message: "Already on the clock today"}
		}
	}
	if len(existing) > 0 {
		return nil, &ConflictError{Message: "Workday already finished, see you tomorrow"}
	}

	// Best-effort fix: the client's own reading wins, otherwise one bounded
	// provider attempt. Either way the clock-in goes through.
	if fix == nil && s.location != nil {
		fix = s.location.Capture(ctx)
	}

	session := &models.Session{
		UserID:      userID,
		DisplayName: displayName,
		WorkDate:    today,
		InTime:      now,
		Location:    fix,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrOpenSessionExists) {
			return nil, &ConflictError{Message: "Already on the clock today"}
		}
		return nil, err
	}

	s.publishChange(ctx, userID)
	return session, nil
}

// ClockOut closes today's open session. Without one there is nothing to
// close and the caller is told so plainly.
func (s *ClockService) ClockOut(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	now := s.now()
	today := WorkDate(now, s.loc)

	session, err := s.sessions.GetOpen(ctx, userID, today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "No open clock-in found for today"}
		}
		return nil, err
	}

	closed, err := s.sessions.Close(ctx, session.ID, now)
	if err != nil {
		return nil, err
	}
	if closed == 0 {
		// Lost a clock-out race: another caller closed it first.
		return nil, &NotFoundError{Message: "No open clock-in found for today"}
	}
	session.OutTime = &now
	session.DayFinished = true

	s.publishChange(ctx, userID)
	return session, nil
}

// ResumeActiveTimer reports the running session's elapsed seconds so a
// reattached timer display resumes mid-count instead of restarting from
// zero. Clock skew never produces a negative value.
func (s *ClockService) ResumeActiveTimer(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	now := s.now()
	today := WorkDate(now, s.loc)

	session, err := s.sessions.GetOpen(ctx, userID, today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}

	return elapsedSeconds(now, session.InTime), true, nil
}

// elapsedSeconds floors to whole seconds and clamps at zero so clock skew
// never yields a negative running timer.
func elapsedSeconds(now, inTime time.Time) int64 {
	elapsed := int64(now.Sub(inTime) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// publishChange recomputes the derived views a mutation invalidates and
// fans them out: the worker's weekly timesheet and the supervisor's row for
// that worker. Recompute failures are logged only; the mutation stands.
func (s *ClockService) publishChange(ctx context.Context, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}

	if s.timesheet != nil {
		sheet, err := s.timesheet.WeeklyTimesheet(ctx, userID)
		if err != nil {
			log.Printf("clock service: failed to recompute timesheet for %s: %v", userID, err)
		} else {
			s.publisher.PublishWorkerUpdate(ctx, userID, models.WSMessage{
				Type:    models.WSTypeTimesheet,
				Payload: sheet,
			})
		}
	}

	if s.status != nil {
		row, err := s.status.ProjectWorker(ctx, userID)
		if err != nil {
			log.Printf("clock service: failed to recompute status for %s: %v", userID, err)
		} else {
			s.publisher.PublishSupervisorUpdate(ctx, models.WSMessage{
				Type:    models.WSTypeStatus,
				Payload: row,
			})
		}
	}
}
