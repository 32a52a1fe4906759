package store

import (
	"context"

	"jobfinder/internal/models"
)

type JobStore struct {
	db DB
}

func NewJobStore(db DB) *JobStore {
	return &JobStore{db: db}
}

type JobInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Location    string
	Budget      int64
	PostedBy    string
}

func (s *JobStore) Create(ctx context.Context, tx Execer, input JobInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO jobs (id, title, description, category, location, budget, posted_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
	`, input.ID, input.Title, input.Description, input.Category, input.Location, input.Budget, input.PostedBy)
	return err
}

func (s *JobStore) GetByID(ctx context.Context, jobID string) (models.Job, error) {
	var row models.Job
	err := s.db.GetContext(ctx, &row, `
		SELECT id, title, description, category, location, budget, posted_by, status, created_at
		FROM jobs
		WHERE id = $1
	`, jobID)
	if err != nil {
		return models.Job{}, err
	}
	return row, nil
}

// GetForUpdate locks the job row for the duration of the enclosing
// transaction. Settlement uses it to serialize status transitions.
func (s *JobStore) GetForUpdate(ctx context.Context, tx Getter, jobID string) (models.Job, error) {
	var row models.Job
	err := tx.GetContext(ctx, &row, `
		SELECT id, title, description, category, location, budget, posted_by, status, created_at
		FROM jobs
		WHERE id = $1
		FOR UPDATE
	`, jobID)
	if err != nil {
		return models.Job{}, err
	}
	return row, nil
}

func (s *JobStore) ListActive(ctx context.Context) ([]models.Job, error) {
	var rows []models.Job
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, title, description, category, location, budget, posted_by, status, created_at
		FROM jobs
		WHERE status = 'active'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *JobStore) ListByPoster(ctx context.Context, posterID string) ([]models.Job, error) {
	var rows []models.Job
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, title, description, category, location, budget, posted_by, status, created_at
		FROM jobs
		WHERE posted_by = $1
		ORDER BY created_at DESC
	`, posterID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkCompleted flips an active job to completed; zero rows affected means
// the job was already completed or cancelled.
func (s *JobStore) MarkCompleted(ctx context.Context, tx Execer, jobID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, jobID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateBudget overwrites the job budget. Only negotiation acceptance may
// call this.
func (s *JobStore) UpdateBudget(ctx context.Context, tx Execer, jobID string, budget int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE jobs SET budget = $1, updated_at = NOW() WHERE id = $2
	`, budget, jobID)
	return err
}
