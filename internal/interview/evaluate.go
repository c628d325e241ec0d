package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/rag"
)

// Evaluation is the graded feedback for one question and answer pair.
type Evaluation struct {
	Question string
	Answer   string
	Feedback string
}

// QuizQuestion is one generated multiple-choice check. Grounded is false when
// Text carries the fixed insufficient-context message.
type QuizQuestion struct {
	Topic    string
	Text     string
	Grounded bool
}

// Evaluate grades one answer against the document. It reads only immutable
// session fields and never moves the question loop, so it runs without the
// session lock and may overlap in-flight turns.
func (s *Session) Evaluate(ctx context.Context, question, answer string) (Evaluation, error) {
	if strings.TrimSpace(question) == "" {
		return Evaluation{}, ErrEmptyQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return Evaluation{}, ErrEmptyAnswer
	}
	results, err := s.retriever.Retrieve(ctx, evaluationQuery(question))
	if err != nil {
		return Evaluation{}, fmt.Errorf("retrieve context: %w", err)
	}
	msgs := evaluationMessages(rag.ContextText(results), question, answer)
	feedback, err := s.generator.Generate(ctx, msgs, provider.Options{
		Temperature: s.cfg.EvaluationTemperature,
		MaxTokens:   s.cfg.EvaluationMaxTokens,
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("generate feedback: %w", err)
	}
	return Evaluation{Question: question, Answer: answer, Feedback: feedback}, nil
}

// Quiz generates one multiple-choice question about topic, grounded in the
// document. The insufficient-context guardrail applies exactly as it does for
// interview questions. Like Evaluate it leaves the question loop untouched.
func (s *Session) Quiz(ctx context.Context, topic string) (QuizQuestion, error) {
	if strings.TrimSpace(topic) == "" {
		return QuizQuestion{}, ErrEmptyTopic
	}
	results, err := s.retriever.Retrieve(ctx, quizQuery(topic))
	if err != nil {
		return QuizQuestion{}, fmt.Errorf("retrieve context: %w", err)
	}
	docContext := rag.ContextText(results)
	if len(strings.TrimSpace(docContext)) < s.cfg.MinContextChars {
		return QuizQuestion{Topic: topic, Text: InsufficientContext}, nil
	}
	text, err := s.generator.Generate(ctx, []provider.Message{
		{Role: provider.RoleUser, Content: quizPrompt(docContext, topic)},
	}, provider.Options{
		Temperature: s.cfg.QuizTemperature,
		MaxTokens:   s.cfg.QuizMaxTokens,
	})
	if err != nil {
		return QuizQuestion{}, fmt.Errorf("generate quiz: %w", err)
	}
	return QuizQuestion{Topic: topic, Text: text, Grounded: true}, nil
}
