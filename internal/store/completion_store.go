package store

import (
	"context"
	"database/sql"

	"jobfinder/internal/models"
)

type CompletionStore struct {
	db DB
}

func NewCompletionStore(db DB) *CompletionStore {
	return &CompletionStore{db: db}
}

type CompletionInput struct {
	ID              string
	JobID           string
	FinderID        string
	PosterID        string
	FinalAmount     int64
	CompletionNotes string
}

func (s *CompletionStore) Create(ctx context.Context, tx Execer, input CompletionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO job_completions (id, job_id, finder_id, poster_id, final_amount, completion_notes, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`, input.ID, input.JobID, input.FinderID, input.PosterID, input.FinalAmount, input.CompletionNotes)
	return err
}

// Exists is the canonical "is this job settled" check.
func (s *CompletionStore) Exists(ctx context.Context, jobID, finderID string) (bool, error) {
	return completionExists(ctx, s.db, jobID, finderID)
}

// ExistsTx runs the same check inside an open transaction.
func (s *CompletionStore) ExistsTx(ctx context.Context, tx Getter, jobID, finderID string) (bool, error) {
	return completionExists(ctx, tx, jobID, finderID)
}

func completionExists(ctx context.Context, q Getter, jobID, finderID string) (bool, error) {
	var id string
	err := q.GetContext(ctx, &id, `
		SELECT id FROM job_completions WHERE job_id = $1 AND finder_id = $2
	`, jobID, finderID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CompletionStore) MarkPaid(ctx context.Context, tx Execer, completionID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE job_completions SET payment_status = 'paid' WHERE id = $1
	`, completionID)
	return err
}

// ListByParticipant returns completions where the user is either party.
func (s *CompletionStore) ListByParticipant(ctx context.Context, userID string) ([]models.JobCompletion, error) {
	var rows []models.JobCompletion
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, job_id, finder_id, poster_id, final_amount, completion_notes,
		       payment_status, finder_rating, poster_rating, completion_date
		FROM job_completions
		WHERE finder_id = $1 OR poster_id = $1
		ORDER BY completion_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CompletionStore) GetByID(ctx context.Context, completionID string) (models.JobCompletion, error) {
	var row models.JobCompletion
	err := s.db.GetContext(ctx, &row, `
		SELECT id, job_id, finder_id, poster_id, final_amount, completion_notes,
		       payment_status, finder_rating, poster_rating, completion_date
		FROM job_completions
		WHERE id = $1
	`, completionID)
	if err != nil {
		return models.JobCompletion{}, err
	}
	return row, nil
}

// SetRating records the rating given by one party. byPoster selects which
// column the rating lands in: posters rate finders and vice versa.
func (s *CompletionStore) SetRating(ctx context.Context, tx Execer, completionID string, byPoster bool, rating int) (int64, error) {
	column := "poster_rating"
	if byPoster {
		column = "finder_rating"
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE job_completions SET `+column+` = $1 WHERE id = $2 AND `+column+` IS NULL
	`, rating, completionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
