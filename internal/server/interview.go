package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/chunk"
	"github.com/mohammad-safakhou/interviewd/internal/extract"
	"github.com/mohammad-safakhou/interviewd/internal/interview"
	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/rag"
	"github.com/mohammad-safakhou/interviewd/internal/registry"
	"github.com/mohammad-safakhou/interviewd/internal/telemetry"
)

// InterviewHandler exposes the interview lifecycle under /api/interviews.
type InterviewHandler struct {
	Registry  *registry.Registry
	Extractor *extract.Extractor
	Embedder  provider.Embedder
	Document  config.DocumentConfig
	Metrics   *telemetry.Metrics
	Logger    *log.Logger
}

func (h *InterviewHandler) Register(g *echo.Group) {
	g.POST("", h.upload)
	g.GET("", h.list)
	g.GET("/:id", h.status)
	g.DELETE("/:id", h.end)
	g.POST("/:id/start", h.start)
	g.POST("/:id/answers", h.answer)
	g.POST("/:id/evaluation", h.evaluate)
	g.POST("/:id/quiz", h.quiz)
}

// httpError maps domain errors onto HTTP statuses. Guardrail turns are not
// errors and never reach this.
func httpError(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, interview.ErrInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, extract.ErrInsufficientText):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrProvider):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *InterviewHandler) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot open upload")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}

	ctx := c.Request().Context()
	text, err := h.Extractor.Text(ctx, raw)
	if err != nil {
		return httpError(err)
	}
	chunks, err := chunk.Split(text, h.Document.ChunkSize, h.Document.ChunkOverlap)
	if err != nil {
		return httpError(err)
	}
	idx, err := rag.BuildIndex(ctx, h.Embedder, chunks)
	if err != nil {
		return httpError(err)
	}

	sess := h.Registry.Create(idx)
	h.Metrics.SessionsCreated.Inc()
	h.Logger.Printf("session %s: indexed %d chunks from %q", sess.ID(), idx.Len(), fh.Filename)
	return c.JSON(http.StatusCreated, UploadResponse{
		SessionID:   sess.ID(),
		Message:     "Job description processed successfully",
		TextPreview: h.Extractor.Preview(text),
		ChunkCount:  idx.Len(),
	})
}

func (h *InterviewHandler) start(c echo.Context) error {
	sess, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	turn, err := sess.Start(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	h.observeTurn(turn)
	return c.JSON(http.StatusOK, questionResponse(turn))
}

func (h *InterviewHandler) answer(c echo.Context) error {
	sess, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Answer) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "answer is required")
	}
	turn, err := sess.SubmitAnswer(c.Request().Context(), req.Answer)
	if err != nil {
		return httpError(err)
	}
	h.observeTurn(turn)
	return c.JSON(http.StatusOK, questionResponse(turn))
}

func (h *InterviewHandler) evaluate(c echo.Context) error {
	sess, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question and answer are required")
	}
	eval, err := sess.Evaluate(c.Request().Context(), req.Question, req.Answer)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, EvaluationResponse{
		Question: eval.Question,
		Answer:   eval.Answer,
		Feedback: eval.Feedback,
	})
}

func (h *InterviewHandler) quiz(c echo.Context) error {
	sess, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Topic) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}
	quiz, err := sess.Quiz(c.Request().Context(), req.Topic)
	if err != nil {
		return httpError(err)
	}
	if !quiz.Grounded {
		h.Metrics.GuardrailTrips.Inc()
	}
	return c.JSON(http.StatusOK, QuizResponse{Topic: quiz.Topic, Quiz: quiz.Text})
}

func (h *InterviewHandler) status(c echo.Context) error {
	sess, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, statusResponse(sess.Status()))
}

func (h *InterviewHandler) list(c echo.Context) error {
	statuses := h.Registry.List()
	resp := SessionListResponse{
		Count:    len(statuses),
		Sessions: make([]SessionStatusResponse, 0, len(statuses)),
	}
	for _, st := range statuses {
		resp.Sessions = append(resp.Sessions, statusResponse(st))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *InterviewHandler) end(c echo.Context) error {
	if h.Registry.Delete(c.Param("id")) {
		h.Metrics.SessionsEnded.Inc()
		h.Logger.Printf("session %s ended", c.Param("id"))
	}
	return c.JSON(http.StatusOK, EndResponse{Ended: true})
}

func (h *InterviewHandler) observeTurn(turn interview.Turn) {
	if !turn.Grounded {
		h.Metrics.GuardrailTrips.Inc()
		return
	}
	if turn.Question != "" {
		h.Metrics.QuestionsAsked.Inc()
	}
}

func questionResponse(turn interview.Turn) QuestionResponse {
	return QuestionResponse{
		Question:       turn.Question,
		QuestionNumber: turn.QuestionNumber,
		TotalQuestions: turn.TotalQuestions,
		IsComplete:     turn.Complete,
	}
}

func statusResponse(st interview.Status) SessionStatusResponse {
	return SessionStatusResponse{
		SessionID:     st.SessionID,
		State:         string(st.State),
		IsActive:      st.Active,
		QuestionCount: st.QuestionCount,
		MaxQuestions:  st.MaxQuestions,
	}
}
