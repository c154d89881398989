package pkg

import (
	"fmt"
	"time"
)

// Core types shared by the knowledge store, the intent rules and the dialogue session

// Mood is the bot's affect for a single response. Front ends use it to pick an avatar
// and to decide whether a teaching prompt is needed.
type Mood string

const (
	MoodNormal   Mood = "NORMAL"
	MoodAnnoyed  Mood = "ANNOYED"
	MoodLearning Mood = "LEARNING"
)

// Product is a single catalog row. Products are loaded once and never mutated.
type Product struct {
	Category    string            `json:"category"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Price       float64           `json:"price"`
	Stock       string            `json:"stock"`
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// String renders the product the way catalog listings show it.
func (p Product) String() string {
	return fmt.Sprintf(
		"  - Name: %s (%s)\n"+
			"    Category: %s\n"+
			"    Price: $%.2f\n"+
			"    Stock: %s\n"+
			"    Description: %s",
		p.Name, p.Brand, p.Category, p.Price, p.Stock, p.Description,
	)
}

// Response is the result of one conversational turn
type Response struct {
	Message         string `json:"message"`
	EndConversation bool   `json:"end_conversation"`
	Mood            Mood   `json:"mood"`
	Personalizable  bool   `json:"personalizable"`
}

// NewResponse builds a non-terminal response
func NewResponse(message string, mood Mood, personalizable bool) Response {
	return Response{
		Message:        message,
		Mood:           mood,
		Personalizable: personalizable,
	}
}

// SessionState is the mutable per-conversation record. One instance per conversation,
// passed by reference into every turn.
type SessionState struct {
	SessionID        string    `json:"session_id"`
	LastInput        string    `json:"last_input"`
	RepetitionCount  int       `json:"repetition_count"`
	UserName         string    `json:"user_name,omitempty"`
	AwaitingUserName bool      `json:"awaiting_user_name"`
	PendingQuestion  string    `json:"pending_question,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasUserName reports whether the user has told the bot their name
func (s *SessionState) HasUserName() bool {
	return s.UserName != ""
}

// ResetRepetition forgets the repetition baseline
func (s *SessionState) ResetRepetition() {
	s.LastInput = ""
	s.RepetitionCount = 0
}
