package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/repository"
	"github.com/jackc/pgx/v5"
)

var (
	ErrMissingEmail       = errors.New("email is required")
	ErrMissingPayment     = errors.New("payment reference is required")
	ErrPaymentNotFound    = errors.New("valid payment not found")
	ErrPaymentAlreadyUsed = errors.New("payment already used for another session")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPaymentPending     = errors.New("payment not completed")
	ErrSessionExpired     = errors.New("session has expired")
	ErrInvalidInput       = errors.New("invalid input")
)

const displayTimeFormat = "2006-01-02 15:04:05"

type sessionStore interface {
	Create(ctx context.Context, input repository.CreateSessionInput) (*models.Session, error)
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error)
	CloseIfActive(ctx context.Context, sessionID int64) (bool, error)
}

type messageStore interface {
	Append(ctx context.Context, sessionID int64, sender, text string) (*models.Message, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error)
}

type paymentLinker interface {
	GetByOrderRef(ctx context.Context, orderRef string) (*models.PaymentRecord, error)
	LinkSession(ctx context.Context, orderRef string, sessionID int64) error
}

// SessionService owns the session lifecycle: booking against a verified
// payment, per-request liveness checks with lazy expiry, and the
// append-only message log.
type SessionService struct {
	sessions  sessionStore
	messages  messageStore
	payments  paymentLinker
	displayTZ *time.Location
	now       func() time.Time

	// onExpired, when set, routes a lazily discovered expiry through the
	// closure engine so the summary side effects still happen exactly once.
	onExpired func(sessionID int64)
}

func NewSessionService(
	sessions *repository.SessionRepository,
	messages *repository.MessageRepository,
	payments *repository.PaymentRepository,
	displayTZ *time.Location,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		messages:  messages,
		payments:  payments,
		displayTZ: displayTZ,
		now:       time.Now,
	}
}

// SetOnExpired registers the closure hook. Must be called during wiring,
// before the service handles requests.
func (s *SessionService) SetOnExpired(hook func(sessionID int64)) {
	s.onExpired = hook
}

type BookSessionInput struct {
	UserName   string
	Email      string
	Phone      *string
	CoachType  string
	PaymentRef string
}

func (s *SessionService) BookSession(ctx context.Context, input BookSessionInput) (*models.Session, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrMissingEmail
	}
	if strings.TrimSpace(input.PaymentRef) == "" {
		return nil, ErrMissingPayment
	}

	payment, err := s.payments.GetByOrderRef(ctx, input.PaymentRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusSuccess {
		return nil, ErrPaymentNotFound
	}

	used, err := s.sessions.ExistsByPaymentRef(ctx, input.PaymentRef)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrPaymentAlreadyUsed
	}

	startTime := s.now().In(s.displayTZ)
	endTime := startTime.Add(time.Duration(payment.DurationMinutes) * time.Minute)

	session, err := s.sessions.Create(ctx, repository.CreateSessionInput{
		UserName:        input.UserName,
		Email:           input.Email,
		Phone:           input.Phone,
		CoachType:       input.CoachType,
		SessionDate:     startTime.Format(displayTimeFormat),
		PaymentRef:      input.PaymentRef,
		DurationMinutes: payment.DurationMinutes,
		Amount:          payment.Amount,
		StartTime:       startTime,
		EndTime:         endTime,
	})
	if err != nil {
		return nil, err
	}

	if err := s.payments.LinkSession(ctx, input.PaymentRef, session.ID); err != nil {
		return nil, err
	}

	return session, nil
}

type SessionStatus struct {
	Session          *models.Session
	RemainingSeconds int64
}

// ValidateSession is the liveness gate every chat turn passes through. A
// session found past its end time is closed on the spot, whether or not the
// scheduler has caught it yet.
func (s *SessionService) ValidateSession(ctx context.Context, sessionID int64) (*SessionStatus, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.PaymentStatus != models.SessionPaymentCompleted {
		return nil, ErrPaymentPending
	}

	now := s.now()
	if now.After(session.EndTime) {
		if s.onExpired != nil {
			s.onExpired(session.ID)
		} else if _, err := s.sessions.CloseIfActive(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	return &SessionStatus{
		Session:          session,
		RemainingSeconds: int64(session.EndTime.Sub(now).Seconds()),
	}, nil
}

// SaveMessage appends to the session log. It deliberately does not check the
// time window: liveness gating belongs to ValidateSession, and callers are
// expected to validate before accepting a chat turn.
func (s *SessionService) SaveMessage(
	ctx context.Context,
	sessionID int64,
	sender string,
	text string,
) (*models.Message, error) {
	if sender != models.SenderUser && sender != models.SenderAssistant {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s.messages.Append(ctx, sessionID, sender, text)
}

// Transcript returns the raw ordered message log, used to replay context to
// the coach model.
func (s *SessionService) Transcript(ctx context.Context, sessionID int64) ([]models.Message, error) {
	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

type MessageView struct {
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// GetMessages returns the conversation in order, timestamps rendered in the
// display zone.
func (s *SessionService) GetMessages(ctx context.Context, sessionID int64) ([]MessageView, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, MessageView{
			ID:        message.ID,
			Sender:    message.Sender,
			Text:      message.Text,
			Timestamp: message.Timestamp.In(s.displayTZ).Format(displayTimeFormat),
		})
	}
	return views, nil
}
