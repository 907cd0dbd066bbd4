package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewclock-backend/internal/models"
	"crewclock-backend/internal/repository"
)

// StatusService derives the supervisor's "who is working and where" board.
type StatusService struct {
	workers  *repository.WorkerRepo
	sessions *repository.SessionRepo
}

func NewStatusService(workers *repository.WorkerRepo, sessions *repository.SessionRepo) *StatusService {
	return &StatusService{workers: workers, sessions: sessions}
}

// LiveBoard projects every active worker. Supervisors get store-wide read
// access; workers never reach this path.
func (s *StatusService) LiveBoard(ctx context.Context) ([]*models.WorkerStatus, error) {
	workers, err := s.workers.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	board := make([]*models.WorkerStatus, 0, len(workers))
	for _, w := range workers {
		sessions, err := s.sessions.ListByUser(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		board = append(board, projectWorker(w, sessions))
	}
	return board, nil
}

// ProjectWorker recomputes a single worker's row, for the reactive push
// after a clock mutation.
func (s *StatusService) ProjectWorker(ctx context.Context, userID uuid.UUID) (*models.WorkerStatus, error) {
	w, err := s.workers.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Worker not found"}
		}
		return nil, err
	}
	sessions, err := s.sessions.ListByUser(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return projectWorker(w, sessions), nil
}

// projectWorker folds a worker's full session set into the live view.
// Location comes only from a currently open session; once a session closes
// its fix is history and stays hidden. Paid totals count closed sessions
// only, under the same bounds as the weekly sums.
func projectWorker(w *models.Worker, sessions []*models.Session) *models.WorkerStatus {
	status := &models.WorkerStatus{
		UserID:   w.ID,
		FullName: w.FullName,
		Presence: models.PresenceOffDuty,
	}

	for _, session := range sessions {
		if !session.IsOpen() {
			continue
		}
		if session.Location != nil {
			status.Presence = models.PresenceActive
			status.LastLocation = session.Location
		} else if status.Presence != models.PresenceActive {
			status.Presence = models.PresenceActiveNoFix
		}
	}

	status.TotalSeconds = SumWorkedSeconds(sessions)
	status.TotalHours = round2(float64(status.TotalSeconds) / 3600.0)
	status.TotalPay = round2(status.TotalHours * w.HourlyRate)
	return status
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
