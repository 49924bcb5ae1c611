package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/repository"
	"github.com/jackc/pgx/v5"
	openai "github.com/sashabaranov/go-openai"
)

var ErrNoMessages = errors.New("session has no messages")

const summaryPrompt = `Here is a conversation between a coach and a user:

%s

Please summarize the session in the following format:

**Actions/commitments by the user:**
- [List the key commitments made by the user]

**Key points discussed:**
- [Summarize the main insights from the conversation]

**What actions and by when:**
- [Mention specific actions the user has committed to, along with deadlines]

**Date of next review conversation:**
- [Suggest a follow-up session date based on the discussion]`

type summarySessionStore interface {
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	SetSummary(ctx context.Context, sessionID int64, text string, generatedAt time.Time) error
}

type summaryMessageStore interface {
	ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error)
}

// SummaryService turns a finished session's transcript into a structured
// summary, persists it, and emails it to the participant. Email delivery is
// best-effort: a failure is logged and the committed summary stands.
type SummaryService struct {
	client    chatCompleter
	model     string
	sessions  summarySessionStore
	messages  summaryMessageStore
	mailer    Mailer
	displayTZ *time.Location
	now       func() time.Time
}

func NewSummaryService(
	apiKey string,
	model string,
	sessions *repository.SessionRepository,
	messages *repository.MessageRepository,
	mailer Mailer,
	displayTZ *time.Location,
) *SummaryService {
	return &SummaryService{
		client:    openai.NewClient(apiKey),
		model:     model,
		sessions:  sessions,
		messages:  messages,
		mailer:    mailer,
		displayTZ: displayTZ,
		now:       time.Now,
	}
}

func (s *SummaryService) Generate(ctx context.Context, sessionID int64) (*models.Summary, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	var transcript strings.Builder
	for _, message := range messages {
		fmt.Fprintf(&transcript, "%s: %s\n", message.Sender, message.Text)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an AI coach assistant. Summarize key insights from the session and provide a structured summary.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(summaryPrompt, transcript.String()),
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("summary completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("summary completion: empty response")
	}

	summary := &models.Summary{
		Text:        strings.TrimSpace(resp.Choices[0].Message.Content),
		GeneratedAt: s.now().In(s.displayTZ),
	}

	if err := s.sessions.SetSummary(ctx, sessionID, summary.Text, summary.GeneratedAt); err != nil {
		return nil, err
	}

	s.deliver(ctx, session, summary)

	return summary, nil
}

func (s *SummaryService) deliver(ctx context.Context, session *models.Session, summary *models.Summary) {
	if s.mailer == nil || session.Email == "" {
		return
	}

	name := session.UserName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"Hello %s,\n\nThank you for your AI coaching session!\n\n"+
			"Session details:\n  Coach: %s\n  Date: %s\n  Duration: %d minutes\n\n"+
			"Summary:\n%s\n\nReady for your next session?\n\nBest,\nCoachLoop",
		name,
		session.CoachType,
		session.SessionDate,
		session.DurationMinutes,
		summary.Text,
	)

	if err := s.mailer.Send(ctx, session.Email, "Your AI Coaching Session Summary", body); err != nil {
		log.Printf("summary: failed to email session %d summary: %v", session.ID, err)
	}
}
