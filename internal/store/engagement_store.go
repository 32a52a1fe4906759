package store

import (
	"context"

	"jobfinder/internal/models"
)

type EngagementStore struct {
	db DB
}

func NewEngagementStore(db DB) *EngagementStore {
	return &EngagementStore{db: db}
}

type ApplicationInput struct {
	ID             string
	JobID          string
	FinderID       string
	FinderName     string
	Message        string
	StudentEmail   string
	StudentContact string
}

type NegotiationInput struct {
	ID             string
	JobID          string
	FinderID       string
	FinderName     string
	ProposedAmount int64
	Message        string
	StudentEmail   string
	StudentContact string
}

func (s *EngagementStore) CreateApplication(ctx context.Context, tx Execer, input ApplicationInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO applications (id, job_id, finder_id, finder_name, message, student_email, student_contact, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
	`, input.ID, input.JobID, input.FinderID, input.FinderName, input.Message, input.StudentEmail, input.StudentContact)
	return err
}

func (s *EngagementStore) CreateNegotiation(ctx context.Context, tx Execer, input NegotiationInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO negotiations (id, job_id, finder_id, finder_name, proposed_amount, message, student_email, student_contact, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
	`, input.ID, input.JobID, input.FinderID, input.FinderName, input.ProposedAmount, input.Message, input.StudentEmail, input.StudentContact)
	return err
}

func (s *EngagementStore) GetApplication(ctx context.Context, applicationID string) (models.Application, error) {
	var row models.Application
	err := s.db.GetContext(ctx, &row, `
		SELECT id, job_id, finder_id, finder_name, message, student_email, student_contact, status, created_at
		FROM applications
		WHERE id = $1
	`, applicationID)
	if err != nil {
		return models.Application{}, err
	}
	return row, nil
}

func (s *EngagementStore) GetNegotiation(ctx context.Context, negotiationID string) (models.Negotiation, error) {
	var row models.Negotiation
	err := s.db.GetContext(ctx, &row, `
		SELECT id, job_id, finder_id, finder_name, proposed_amount, message, student_email, student_contact, status, created_at
		FROM negotiations
		WHERE id = $1
	`, negotiationID)
	if err != nil {
		return models.Negotiation{}, err
	}
	return row, nil
}

// DecideApplication moves a pending application to a terminal status. Zero
// rows affected means the application was already decided.
func (s *EngagementStore) DecideApplication(ctx context.Context, tx Execer, applicationID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE applications SET status = $1 WHERE id = $2 AND status = 'pending'
	`, status, applicationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *EngagementStore) DecideNegotiation(ctx context.Context, tx Execer, negotiationID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE negotiations SET status = $1 WHERE id = $2 AND status = 'pending'
	`, status, negotiationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *EngagementStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var rows []models.Application
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, job_id, finder_id, finder_name, message, student_email, student_contact, status, created_at
		FROM applications
		WHERE job_id = $1
		ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *EngagementStore) ListNegotiationsByJob(ctx context.Context, jobID string) ([]models.Negotiation, error) {
	var rows []models.Negotiation
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, job_id, finder_id, finder_name, proposed_amount, message, student_email, student_contact, status, created_at
		FROM negotiations
		WHERE job_id = $1
		ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListConfirmedByUser returns approved applications and accepted negotiations
// for either party as one tagged list. The kind column is the discriminant;
// final_amount carries the job budget for applications and the proposed
// amount for negotiations.
func (s *EngagementStore) ListConfirmedByUser(ctx context.Context, userID string) ([]models.Engagement, error) {
	var rows []models.Engagement
	err := s.db.SelectContext(ctx, &rows, `
		SELECT 'application' AS kind, a.id, a.job_id, j.title AS job_title, j.status AS job_status,
		       j.posted_by AS poster_id, a.finder_id, a.finder_name,
		       j.budget AS final_amount, a.status, a.created_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.status = 'approved' AND (a.finder_id = $1 OR j.posted_by = $1)
		UNION ALL
		SELECT 'negotiation' AS kind, n.id, n.job_id, j.title AS job_title, j.status AS job_status,
		       j.posted_by AS poster_id, n.finder_id, n.finder_name,
		       n.proposed_amount AS final_amount, n.status, n.created_at
		FROM negotiations n
		JOIN jobs j ON j.id = n.job_id
		WHERE n.status = 'accepted' AND (n.finder_id = $1 OR j.posted_by = $1)
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
