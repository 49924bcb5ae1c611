package repository

import (
	"context"
	"time"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateSessionInput struct {
	UserName        string
	Email           string
	Phone           *string
	CoachType       string
	SessionDate     string
	PaymentRef      string
	DurationMinutes int
	Amount          int
	StartTime       time.Time
	EndTime         time.Time
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_name, email, phone, coach_type, session_date, payment_ref,
		duration_min, amount, start_time, end_time, is_active, payment_status,
		reminder_sent, summary_text, summary_generated_at`

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := `
		INSERT INTO coaching_sessions
			(user_name, email, phone, coach_type, session_date, payment_ref,
			 duration_min, amount, start_time, end_time, is_active, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, 'completed')
		RETURNING ` + sessionColumns

	return scanSession(r.db.QueryRow(
		ctx,
		query,
		input.UserName,
		input.Email,
		input.Phone,
		input.CoachType,
		input.SessionDate,
		input.PaymentRef,
		input.DurationMinutes,
		input.Amount,
		input.StartTime,
		input.EndTime,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM coaching_sessions
		WHERE id = $1
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM coaching_sessions WHERE payment_ref = $1
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, paymentRef).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CloseIfActive flips is_active to false and reports whether this call did the
// flip. Concurrent closers race on the same row; exactly one sees true.
func (r *SessionRepository) CloseIfActive(ctx context.Context, sessionID int64) (bool, error) {
	query := `
		UPDATE coaching_sessions
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SessionRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM coaching_sessions
		WHERE is_active = TRUE AND end_time < $1
		ORDER BY end_time ASC, id ASC
	`
	return r.list(ctx, query, now)
}

func (r *SessionRepository) ListUnreminded(ctx context.Context) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM coaching_sessions
		WHERE reminder_sent = FALSE
		ORDER BY id ASC
	`
	return r.list(ctx, query)
}

func (r *SessionRepository) MarkReminderSent(ctx context.Context, sessionID int64) error {
	query := `
		UPDATE coaching_sessions
		SET reminder_sent = TRUE
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, sessionID)
	return err
}

func (r *SessionRepository) SetSummary(
	ctx context.Context,
	sessionID int64,
	text string,
	generatedAt time.Time,
) error {
	query := `
		UPDATE coaching_sessions
		SET summary_text = $2, summary_generated_at = $3
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, sessionID, text, generatedAt)
	return err
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	var summaryText *string
	var summaryGeneratedAt *time.Time

	err := row.Scan(
		&session.ID,
		&session.UserName,
		&session.Email,
		&session.Phone,
		&session.CoachType,
		&session.SessionDate,
		&session.PaymentRef,
		&session.DurationMinutes,
		&session.Amount,
		&session.StartTime,
		&session.EndTime,
		&session.IsActive,
		&session.PaymentStatus,
		&session.ReminderSent,
		&summaryText,
		&summaryGeneratedAt,
	)
	if err != nil {
		return nil, err
	}
	if summaryText != nil && summaryGeneratedAt != nil {
		session.Summary = &models.Summary{Text: *summaryText, GeneratedAt: *summaryGeneratedAt}
	}
	return &session, nil
}
