// Package interview drives a question loop over a single indexed document:
// retrieval-grounded question generation, answer evaluation, and quiz checks.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/rag"
)

// State names the lifecycle phase of a session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

var (
	// ErrInput is the base for caller mistakes; the HTTP layer maps it to 400.
	ErrInput          = errors.New("invalid input")
	ErrAlreadyStarted = fmt.Errorf("%w: interview already started", ErrInput)
	ErrNotStarted     = fmt.Errorf("%w: interview not started", ErrInput)
	ErrEmptyAnswer    = fmt.Errorf("%w: answer is required", ErrInput)
	ErrEmptyQuestion  = fmt.Errorf("%w: question is required", ErrInput)
	ErrEmptyTopic     = fmt.Errorf("%w: topic is required", ErrInput)
)

// Turn is the outcome of one question-generation step. Grounded is false when
// retrieval could not anchor the turn and Question carries the fixed
// insufficient-context message instead of a generated question.
type Turn struct {
	Question       string
	QuestionNumber int
	TotalQuestions int
	Complete       bool
	Grounded       bool
}

// Status is a point-in-time snapshot of a session.
type Status struct {
	SessionID     string
	State         State
	Active        bool
	QuestionCount int
	MaxQuestions  int
	CreatedAt     time.Time
}

// Session is one interview over one document index. A single mutex covers the
// whole of every turn, provider calls included, so concurrent submissions
// serialize and the question counter advances at most once per call.
type Session struct {
	id        string
	cfg       config.InterviewConfig
	generator provider.Generator
	retriever rag.Retriever
	createdAt time.Time

	mu        sync.Mutex
	state     State
	history   []provider.Message
	questions int
}

// NewSession creates a session in the not-started state.
func NewSession(id string, idx *rag.Index, emb provider.Embedder, gen provider.Generator, cfg config.InterviewConfig) *Session {
	cfg = cfg.Normalize()
	return &Session{
		id:        id,
		cfg:       cfg,
		generator: gen,
		retriever: rag.Retriever{Embedder: emb, Index: idx, TopK: cfg.TopK},
		createdAt: time.Now(),
		state:     StateNotStarted,
	}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Start asks the opening question. Valid exactly once per session.
func (s *Session) Start(ctx context.Context) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return Turn{}, ErrAlreadyStarted
	}
	return s.nextQuestion(ctx, "")
}

// SubmitAnswer records the candidate's answer and asks the next question.
// The turn that reaches the question limit completes the session and returns
// an empty question; every later call returns the terminal turn without
// touching the model.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (Turn, error) {
	if strings.TrimSpace(answer) == "" {
		return Turn{}, ErrEmptyAnswer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateNotStarted:
		return Turn{}, ErrNotStarted
	case StateComplete:
		return Turn{
			QuestionNumber: s.questions,
			TotalQuestions: s.cfg.MaxQuestions,
			Complete:       true,
			Grounded:       true,
		}, nil
	}
	turn, err := s.nextQuestion(ctx, answer)
	if err != nil {
		return Turn{}, err
	}
	if turn.Complete {
		turn.Question = ""
	}
	return turn, nil
}

// nextQuestion runs one retrieval + generation step. The caller holds s.mu.
// Session state mutates only after the provider call succeeds; a short
// context aborts the turn before any model call and commits nothing.
func (s *Session) nextQuestion(ctx context.Context, answer string) (Turn, error) {
	query := bootstrapQuery
	if answer != "" {
		query = followUpQuery(answer)
	}
	results, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return Turn{}, fmt.Errorf("retrieve context: %w", err)
	}
	docContext := rag.ContextText(results)
	if len(strings.TrimSpace(docContext)) < s.cfg.MinContextChars {
		return Turn{
			Question:       InsufficientContext,
			QuestionNumber: s.questions,
			TotalQuestions: s.cfg.MaxQuestions,
			Grounded:       false,
		}, nil
	}

	msgs := make([]provider.Message, 0, len(s.history)+2)
	msgs = append(msgs, provider.Message{Role: provider.RoleSystem, Content: questionPrompt(docContext)})
	msgs = append(msgs, s.history...)
	if answer != "" {
		msgs = append(msgs, provider.Message{Role: provider.RoleUser, Content: answer})
	}

	question, err := s.generator.Generate(ctx, msgs, provider.Options{
		Temperature: s.cfg.QuestionTemperature,
		MaxTokens:   s.cfg.QuestionMaxTokens,
	})
	if err != nil {
		return Turn{}, fmt.Errorf("generate question: %w", err)
	}

	if answer != "" {
		s.history = append(s.history, provider.Message{Role: provider.RoleUser, Content: answer})
	}
	s.history = append(s.history, provider.Message{Role: provider.RoleAssistant, Content: question})
	s.questions++
	if s.questions >= s.cfg.MaxQuestions {
		s.state = StateComplete
	} else {
		s.state = StateInProgress
	}

	return Turn{
		Question:       question,
		QuestionNumber: s.questions,
		TotalQuestions: s.cfg.MaxQuestions,
		Complete:       s.state == StateComplete,
		Grounded:       true,
	}, nil
}

// Status reports the session snapshot used by status and listing endpoints.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		SessionID:     s.id,
		State:         s.state,
		Active:        s.state != StateComplete,
		QuestionCount: s.questions,
		MaxQuestions:  s.cfg.MaxQuestions,
		CreatedAt:     s.createdAt,
	}
}
