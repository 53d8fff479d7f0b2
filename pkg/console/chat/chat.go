// Package chat holds a conversation with a deployed model instance.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surgegrid/surge/pkg/api/types/models"
)

var (
	ErrNotConnected = errors.New("no model connected")
	ErrNotServing   = errors.New("model instance is not serving")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
	At      time.Time
}

// Completer asks the model to continue the transcript and returns the
// assistant's reply.
type Completer func(ctx context.Context, model models.Detail, transcript []Message) (string, error)

// Session is one chat conversation.
//
// Connecting to a model clears the transcript: a conversation never mixes
// replies from two models. Sending appends the user message first, then,
// only on success, the assistant reply; when the completion fails the
// user message stays in the transcript and the error goes to the caller.
type Session struct {
	mu        sync.Mutex
	id        string
	model     models.Detail
	connected bool
	transcript []Message
	complete  Completer
}

func New(complete Completer) *Session {
	return &Session{
		id:       uuid.NewString(),
		complete: complete,
	}
}

// Id is the client-side identifier of this conversation.
func (s *Session) Id() string {
	return s.id
}

// Connect switches the session to the given model instance, dropping any
// previous transcript.
//
// ErrNotServing when the instance exposes no inference endpoint yet.
func (s *Session) Connect(model models.Detail) error {
	if model.OllamaURL == "" {
		return fmt.Errorf("%w: %s", ErrNotServing, model.ModelId)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = model
	s.connected = true
	s.transcript = nil
	return nil
}

// Connected returns the connected model, if any.
func (s *Session) Connected() (models.Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.connected
}

// Send appends content as a user message and asks the model for a reply.
func (s *Session) Send(ctx context.Context, content string) (Message, error) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return Message{}, ErrNotConnected
	}
	model := s.model
	s.transcript = append(s.transcript, Message{
		Role: RoleUser, Content: content, At: time.Now(),
	})
	transcript := make([]Message, len(s.transcript))
	copy(transcript, s.transcript)
	s.mu.Unlock()

	reply, err := s.complete(ctx, model, transcript)
	if err != nil {
		return Message{}, err
	}

	message := Message{Role: RoleAssistant, Content: reply, At: time.Now()}

	s.mu.Lock()
	s.transcript = append(s.transcript, message)
	s.mu.Unlock()

	return message, nil
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]Message, len(s.transcript))
	copy(transcript, s.transcript)
	return transcript
}
