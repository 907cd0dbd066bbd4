package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewclock-backend/internal/models"
)

type WorkerRepo struct {
	pool *pgxpool.Pool
}

func NewWorkerRepo(pool *pgxpool.Pool) *WorkerRepo {
	return &WorkerRepo{pool: pool}
}

const workerColumns = `id, email, password_hash, full_name, role, hourly_rate, is_active, created_at, last_login_at`

func (r *WorkerRepo) GetByEmail(ctx context.Context, email string) (*models.Worker, error) {
	w := &models.Worker{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE email = $1`, email,
	).Scan(
		&w.ID, &w.Email, &w.PasswordHash, &w.FullName, &w.Role,
		&w.HourlyRate, &w.IsActive, &w.CreatedAt, &w.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WorkerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	w := &models.Worker{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE id = $1`, id,
	).Scan(
		&w.ID, &w.Email, &w.PasswordHash, &w.FullName, &w.Role,
		&w.HourlyRate, &w.IsActive, &w.CreatedAt, &w.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkers returns the staff list the supervisor projection iterates over.
func (r *WorkerRepo) ListWorkers(ctx context.Context) ([]*models.Worker, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE role = $1 AND is_active = TRUE ORDER BY full_name`,
		models.RoleWorker,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*models.Worker, 0)
	for rows.Next() {
		w := &models.Worker{}
		if err := rows.Scan(
			&w.ID, &w.Email, &w.PasswordHash, &w.FullName, &w.Role,
			&w.HourlyRate, &w.IsActive, &w.CreatedAt, &w.LastLoginAt,
		); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (r *WorkerRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE workers SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}
