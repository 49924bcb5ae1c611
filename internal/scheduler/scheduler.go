package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/observability"
	"github.com/AyushSid28/Coach-Loop/internal/services"
)

// Closure triggers, recorded in logs and metrics.
const (
	TriggerTimer = "timer"
	TriggerSweep = "sweep"
	TriggerLazy  = "lazy"
)

const defaultSweepInterval = 5 * time.Minute

type sessionStore interface {
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	CloseIfActive(ctx context.Context, sessionID int64) (bool, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]models.Session, error)
	ListUnreminded(ctx context.Context) ([]models.Session, error)
	MarkReminderSent(ctx context.Context, sessionID int64) error
}

type messageLister interface {
	ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error)
}

type summaryGenerator interface {
	Generate(ctx context.Context, sessionID int64) (*models.Summary, error)
}

type eventSink interface {
	SessionEnded(sessionID int64)
}

// Scheduler drives session closure without client requests: a one-shot timer
// per booked session plus a periodic sweep that re-reads the store. The store
// is the source of truth; timers are an optimization and may be lost on
// restart, in which case the sweep alone produces correct results.
type Scheduler struct {
	sessions  sessionStore
	messages  messageLister
	summaries summaryGenerator
	mailer    services.Mailer
	events    eventSink
	metrics   *observability.Metrics
	interval  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	timers   map[int64]*time.Timer
	stopChan chan struct{}
	ticker   *time.Ticker
}

func New(
	sessions sessionStore,
	messages messageLister,
	summaries summaryGenerator,
	mailer services.Mailer,
	events eventSink,
	metrics *observability.Metrics,
) *Scheduler {
	return &Scheduler{
		sessions:  sessions,
		messages:  messages,
		summaries: summaries,
		mailer:    mailer,
		events:    events,
		metrics:   metrics,
		interval:  defaultSweepInterval,
		now:       time.Now,
		timers:    make(map[int64]*time.Timer),
		stopChan:  make(chan struct{}),
	}
}

// Start launches the sweep loop. The first check runs immediately, not after
// the full interval, so sessions orphaned by a restart are caught right away.
func (s *Scheduler) Start() {
	log.Println("scheduler: starting session monitoring")
	s.ticker = time.NewTicker(s.interval)
	go s.loop()
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.mu.Lock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
}

func (s *Scheduler) loop() {
	ctx := context.Background()
	s.Sweep(ctx)
	for {
		select {
		case <-s.ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			return
		}
	}
}

// Sweep closes every active session whose end time has passed. It is the
// durability net behind the per-session timers.
func (s *Scheduler) Sweep(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}

	expired, err := s.sessions.ListExpiredActive(ctx, s.now())
	if err != nil {
		log.Printf("scheduler: failed to list expired sessions: %v", err)
		return
	}
	if len(expired) > 0 {
		log.Printf("scheduler: found %d expired sessions", len(expired))
	}
	for _, session := range expired {
		s.HandleSessionEnd(session.ID, TriggerSweep)
	}

	s.sendReminders(ctx)
}

// ScheduleSessionEnd arms a one-shot timer for the session's end time. A
// deadline already in the past fires immediately.
func (s *Scheduler) ScheduleSessionEnd(session *models.Session) {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	delay := session.EndTime.Sub(s.now())
	if delay <= 0 {
		log.Printf("scheduler: session %d already past its end time, closing now", session.ID)
		go s.HandleSessionEnd(session.ID, TriggerTimer)
		return
	}

	sessionID := session.ID
	s.mu.Lock()
	if old, ok := s.timers[sessionID]; ok {
		old.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(delay, func() {
		s.HandleSessionEnd(sessionID, TriggerTimer)
	})
	s.mu.Unlock()

	log.Printf("scheduler: session %d ends in %s", sessionID, delay.Round(time.Second))
}

// NotifyExpired routes a lazily discovered expiry (a validation call that
// found the window elapsed) through the same closure path as the timers.
func (s *Scheduler) NotifyExpired(sessionID int64) {
	s.HandleSessionEnd(sessionID, TriggerLazy)
}

// HandleSessionEnd closes the session and kicks off summary production. Safe
// under concurrent and duplicate invocation: the atomic close-if-active
// update picks a single winner, and only the winner produces the summary.
// The flip is committed before this returns; the summary runs in the
// background so no caller blocks on it.
func (s *Scheduler) HandleSessionEnd(sessionID int64, trigger string) {
	ctx := context.Background()
	s.cancelTimer(sessionID)

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		log.Printf("scheduler: session %d not found for closure: %v", sessionID, err)
		return
	}

	closed, err := s.sessions.CloseIfActive(ctx, sessionID)
	if err != nil {
		log.Printf("scheduler: failed to close session %d: %v", sessionID, err)
		return
	}
	if !closed {
		// Another closer won the race; nothing left to do.
		return
	}

	log.Printf("scheduler: session %d closed (%s)", sessionID, trigger)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
		s.metrics.SessionsClosed.WithLabelValues(trigger).Inc()
	}
	if s.events != nil {
		s.events.SessionEnded(sessionID)
	}

	go s.produceSummary(sessionID)
}

func (s *Scheduler) produceSummary(sessionID int64) {
	ctx := context.Background()

	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		log.Printf("scheduler: failed to load messages for session %d: %v", sessionID, err)
		return
	}
	if len(messages) == 0 {
		log.Printf("scheduler: session %d has no messages, skipping summary", sessionID)
		return
	}

	if _, err := s.summaries.Generate(ctx, sessionID); err != nil {
		if s.metrics != nil {
			s.metrics.SummaryFailures.Inc()
		}
		log.Printf("scheduler: summary generation failed for session %d: %v", sessionID, err)
	}
}

// sendReminders emails a booking confirmation once per session. Failures are
// retried on the next sweep because the flag is only set after a successful
// send.
func (s *Scheduler) sendReminders(ctx context.Context) {
	if s.mailer == nil {
		return
	}

	pending, err := s.sessions.ListUnreminded(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list unreminded sessions: %v", err)
		return
	}

	for _, session := range pending {
		if session.Email == "" {
			log.Printf("scheduler: no email for session %d, skipping reminder", session.ID)
			continue
		}
		body := buildReminderBody(&session)
		if err := s.mailer.Send(ctx, session.Email, "Your AI Coaching Session is Booked", body); err != nil {
			log.Printf("scheduler: failed to send reminder for session %d: %v", session.ID, err)
			continue
		}
		if err := s.sessions.MarkReminderSent(ctx, session.ID); err != nil {
			log.Printf("scheduler: failed to mark reminder sent for session %d: %v", session.ID, err)
		}
	}
}

func buildReminderBody(session *models.Session) string {
	name := session.UserName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hello %s,\n\nYour %d-minute coaching session (%s) started at %s.\n\nSee you inside!\n\nBest,\nCoachLoop",
		name,
		session.DurationMinutes,
		session.CoachType,
		session.SessionDate,
	)
}

func (s *Scheduler) cancelTimer(sessionID int64) {
	s.mu.Lock()
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
	s.mu.Unlock()
}
