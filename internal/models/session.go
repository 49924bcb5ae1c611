package models

import "time"

const (
	SessionPaymentPending   = "pending"
	SessionPaymentCompleted = "completed"
	SessionPaymentFailed    = "failed"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Session is a time-boxed coaching conversation bought with a single payment.
// EndTime is fixed at booking (StartTime + duration) and never recomputed;
// IsActive is the authoritative liveness flag.
type Session struct {
	ID              int64     `json:"id"`
	UserName        string    `json:"user_name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	CoachType       string    `json:"coach_type"`
	SessionDate     string    `json:"session_date"`
	PaymentRef      string    `json:"payment_ref"`
	DurationMinutes int       `json:"duration_minutes"`
	Amount          int       `json:"amount"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	IsActive        bool      `json:"is_active"`
	PaymentStatus   string    `json:"payment_status"`
	ReminderSent    bool      `json:"reminder_sent"`
	Summary         *Summary  `json:"summary,omitempty"`
}

type Summary struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
