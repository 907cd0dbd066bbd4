package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewclock-backend/internal/models"
)

// ErrOpenSessionExists is reported when an insert loses the race against
// another open session for the same worker and date. The partial unique
// index work_sessions_one_open raises it, so the check-then-insert sequence
// in the lifecycle engine is safe under concurrent writers.
var ErrOpenSessionExists = errors.New("open session already exists for this date")

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = `id, user_id, display_name, work_date, in_time, out_time, lat, lng, day_finished, created_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	s := &models.Session{}
	var lat, lng *float64
	err := row.Scan(
		&s.ID, &s.UserID, &s.DisplayName, &s.WorkDate, &s.InTime, &s.OutTime,
		&lat, &lng, &s.DayFinished, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		s.Location = &models.GeoPoint{Lat: *lat, Lng: *lng}
	}
	return s, nil
}

func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	var lat, lng *float64
	if s.Location != nil {
		lat, lng = &s.Location.Lat, &s.Location.Lng
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO work_sessions (user_id, display_name, work_date, in_time, lat, lng, day_finished)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, created_at
	`, s.UserID, s.DisplayName, s.WorkDate, s.InTime, lat, lng).Scan(&s.ID, &s.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrOpenSessionExists
	}
	return err
}

// GetOpen returns the open session for a worker and date, or pgx.ErrNoRows.
func (r *SessionRepo) GetOpen(ctx context.Context, userID uuid.UUID, workDate string) (*models.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM work_sessions
		WHERE user_id = $1 AND work_date = $2 AND out_time IS NULL
		LIMIT 1
	`, userID, workDate)
	return scanSession(row)
}

// Close sets out_time exactly once; the out_time IS NULL guard keeps a
// second writer from overwriting it. Returns the number of rows closed so
// the caller can tell a recorded clock-out from a lost race.
func (r *SessionRepo) Close(ctx context.Context, sessionID uuid.UUID, outTime time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE work_sessions
		SET out_time = $1, day_finished = TRUE
		WHERE id = $2 AND out_time IS NULL
	`, outTime, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepo) ListByUserAndDate(ctx context.Context, userID uuid.UUID, workDate string) ([]*models.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM work_sessions
		WHERE user_id = $1 AND work_date = $2
		ORDER BY in_time
	`, userID, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListByUserAndDates is the weekly fetch: date-set membership in one query.
func (r *SessionRepo) ListByUserAndDates(ctx context.Context, userID uuid.UUID, workDates []string) ([]*models.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM work_sessions
		WHERE user_id = $1 AND work_date = ANY($2)
		ORDER BY work_date, in_time
	`, userID, workDates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM work_sessions
		WHERE user_id = $1
		ORDER BY work_date, in_time
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// PurgeBefore deletes closed sessions dated strictly before cutoffDate.
// Open sessions are never purged.
func (r *SessionRepo) PurgeBefore(ctx context.Context, cutoffDate string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM work_sessions WHERE work_date < $1 AND out_time IS NOT NULL
	`, cutoffDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectSessions(rows pgx.Rows) ([]*models.Session, error) {
	sessions := make([]*models.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
