package models

import "time"

// Job status values. A job moves active -> completed exactly once; cancelled
// is terminal as well.
const (
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

// Engagement statuses. pending is the only non-terminal state.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"

	NegotiationStatusPending  = "pending"
	NegotiationStatusAccepted = "accepted"
	NegotiationStatusRejected = "rejected"
)

const (
	TransactionTypeEarning    = "earning"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeRefund     = "refund"
	TransactionTypeFee        = "fee"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusDisputed = "disputed"
)

const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusFailed    = "failed"
)

// EngagementKind discriminates the two engagement record shapes explicitly.
type EngagementKind string

const (
	EngagementApplication EngagementKind = "application"
	EngagementNegotiation EngagementKind = "negotiation"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Job struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Location    string    `db:"location" json:"location"`
	Budget      int64     `db:"budget" json:"budget"`
	PostedBy    string    `db:"posted_by" json:"posted_by"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Application struct {
	ID             string    `db:"id" json:"id"`
	JobID          string    `db:"job_id" json:"job_id"`
	FinderID       string    `db:"finder_id" json:"finder_id"`
	FinderName     string    `db:"finder_name" json:"finder_name"`
	Message        string    `db:"message" json:"message"`
	StudentEmail   string    `db:"student_email" json:"student_email"`
	StudentContact string    `db:"student_contact" json:"student_contact"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Negotiation struct {
	ID             string    `db:"id" json:"id"`
	JobID          string    `db:"job_id" json:"job_id"`
	FinderID       string    `db:"finder_id" json:"finder_id"`
	FinderName     string    `db:"finder_name" json:"finder_name"`
	ProposedAmount int64     `db:"proposed_amount" json:"proposed_amount"`
	Message        string    `db:"message" json:"message"`
	StudentEmail   string    `db:"student_email" json:"student_email"`
	StudentContact string    `db:"student_contact" json:"student_contact"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Engagement is the tagged view over applications and negotiations used for
// confirmed-work listings. Kind is the discriminant; FinalAmount is the job
// budget for applications and the proposed amount for negotiations.
type Engagement struct {
	Kind        EngagementKind `db:"kind" json:"kind"`
	ID          string         `db:"id" json:"id"`
	JobID       string         `db:"job_id" json:"job_id"`
	JobTitle    string         `db:"job_title" json:"job_title"`
	JobStatus   string         `db:"job_status" json:"job_status"`
	PosterID    string         `db:"poster_id" json:"poster_id"`
	FinderID    string         `db:"finder_id" json:"finder_id"`
	FinderName  string         `db:"finder_name" json:"finder_name"`
	FinalAmount int64          `db:"final_amount" json:"final_amount"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

type Wallet struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Balance       int64     `db:"balance" json:"balance"`
	TotalEarned   int64     `db:"total_earned" json:"total_earned"`
	PendingAmount int64     `db:"pending_amount" json:"pending_amount"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	JobID       *string    `db:"job_id" json:"job_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Status      string     `db:"status" json:"status"`
	Amount      int64      `db:"amount" json:"amount"`
	Description string     `db:"description" json:"description"`
	Metadata    string     `db:"metadata" json:"metadata"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type JobCompletion struct {
	ID              string    `db:"id" json:"id"`
	JobID           string    `db:"job_id" json:"job_id"`
	FinderID        string    `db:"finder_id" json:"finder_id"`
	PosterID        string    `db:"poster_id" json:"poster_id"`
	FinalAmount     int64     `db:"final_amount" json:"final_amount"`
	CompletionNotes string    `db:"completion_notes" json:"completion_notes"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	FinderRating    *int      `db:"finder_rating" json:"finder_rating,omitempty"`
	PosterRating    *int      `db:"poster_rating" json:"poster_rating,omitempty"`
	CompletionDate  time.Time `db:"completion_date" json:"completion_date"`
}

type Withdrawal struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	Amount        int64      `db:"amount" json:"amount"`
	UpiID         *string    `db:"upi_id" json:"upi_id,omitempty"`
	BankName      *string    `db:"bank_name" json:"bank_name,omitempty"`
	BankAccountNo *string    `db:"bank_account_no" json:"bank_account_no,omitempty"`
	Status        string     `db:"status" json:"status"`
	Reference     string     `db:"reference" json:"reference"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
