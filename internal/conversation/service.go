package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/logger"
	"computerx_chatbot/internal/nodes"
	"computerx_chatbot/internal/storage"
	"computerx_chatbot/pkg"
)

// DefaultHistoryTurns is how many user/assistant exchanges a transcript keeps
const DefaultHistoryTurns = 10

// Record is everything stored per conversation
type Record struct {
	State   pkg.SessionState  `json:"state"`
	History []*schema.Message `json:"history"`
}

// ServiceConfig configures a Service. Zero values take the package defaults; set
// PersonalizeProbability to NeverPersonalize to turn personalization off.
type ServiceConfig struct {
	BotName                string
	HistoryTurns           int
	PersonalizeProbability float64
	Picker                 nodes.Picker
}

// Service runs many conversations over one router and knowledge store, keeping each
// conversation's state and transcript in storage between turns.
type Service struct {
	repo    storage.Storage[Record]
	router  *core.Router
	learner Learner
	cfg     ServiceConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a conversation service
func NewService(repo storage.Storage[Record], router *core.Router, learner Learner, cfg ServiceConfig) *Service {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = DefaultHistoryTurns
	}
	if cfg.Picker == nil {
		cfg.Picker = nodes.DefaultPicker()
	}
	if cfg.PersonalizeProbability == 0 {
		cfg.PersonalizeProbability = DefaultPersonalizeProbability
	}
	return &Service{
		repo:    repo,
		router:  router,
		learner: learner,
		cfg:     cfg,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Greeting is the first message of every conversation
func (s *Service) Greeting() string {
	return fmt.Sprintf("Hello! I'm %s. How can I help you today?", s.cfg.BotName)
}

// Start opens a new conversation and returns its ID and the greeting
func (s *Service) Start(ctx context.Context) (string, string, error) {
	now := time.Now()
	id := uuid.NewString()
	greeting := s.Greeting()

	rec := Record{
		State: pkg.SessionState{
			SessionID: id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		History: []*schema.Message{schema.AssistantMessage(greeting, nil)},
	}
	if err := s.repo.Set(ctx, id, rec); err != nil {
		return "", "", fmt.Errorf("failed to start conversation: %w", err)
	}

	logger.Info().Str("session_id", id).Msg("Conversation started")
	return id, greeting, nil
}

// Respond runs one turn of the conversation
func (s *Service) Respond(ctx context.Context, sessionID, text string) (pkg.Response, error) {
	var resp pkg.Response
	err := s.update(ctx, sessionID, func(rec *Record, sess *Session) error {
		resp = sess.Respond(ctx, text)
		rec.History = append(rec.History,
			schema.UserMessage(text),
			schema.AssistantMessage(resp.Message, nil),
		)
		return nil
	})
	return resp, err
}

// Learn completes the teaching handshake for the conversation's pending question
func (s *Service) Learn(ctx context.Context, sessionID, question, answer string) error {
	return s.update(ctx, sessionID, func(rec *Record, sess *Session) error {
		if err := sess.Learn(ctx, question, answer); err != nil {
			return err
		}
		rec.History = append(rec.History, schema.AssistantMessage(LearnedMessage, nil))
		return nil
	})
}

// Decline abandons the pending question and returns the acknowledgement
func (s *Service) Decline(ctx context.Context, sessionID string) (string, error) {
	var msg string
	err := s.update(ctx, sessionID, func(rec *Record, sess *Session) error {
		msg = sess.Decline()
		rec.History = append(rec.History, schema.AssistantMessage(msg, nil))
		return nil
	})
	return msg, err
}

// State returns the conversation's current state
func (s *Service) State(ctx context.Context, sessionID string) (pkg.SessionState, error) {
	rec, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return pkg.SessionState{}, err
	}
	return rec.State, nil
}

// History returns the conversation's recent transcript
func (s *Service) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	rec, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return rec.History, nil
}

// End closes the conversation and forgets it
func (s *Service) End(ctx context.Context, sessionID string) error {
	lock := s.lock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()

	logger.Info().Str("session_id", sessionID).Msg("Conversation ended")
	return nil
}

// update loads the conversation, applies fn and saves the result. Turns of one
// conversation are serialized; different conversations run independently.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*Record, *Session) error) error {
	lock := s.lock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	sess := NewSession(&rec.State, s.router, s.learner,
		WithPicker(s.cfg.Picker),
		WithPersonalizeProbability(s.cfg.PersonalizeProbability),
	)
	if err := fn(&rec, sess); err != nil {
		return err
	}

	rec.History = trimTail(rec.History, s.cfg.HistoryTurns*2)
	rec.State.UpdatedAt = time.Now()
	return s.repo.Set(ctx, sessionID, rec)
}

func (s *Service) lock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// FormatTranscript renders messages one per line, prefixed with who said them
func FormatTranscript(messages []*schema.Message, botName string) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case schema.User:
			b.WriteString("You: " + msg.Content + "\n")
		case schema.Assistant:
			b.WriteString(botName + ": " + msg.Content + "\n")
		}
	}
	return b.String()
}

func trimTail(messages []*schema.Message, maxMessages int) []*schema.Message {
	if len(messages) <= maxMessages {
		return messages
	}
	return messages[len(messages)-maxMessages:]
}
