package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/httperror"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
)

// QuizHandler runs the trivia quiz lifecycle over HTTP.
type QuizHandler struct {
	service *analytics.Service
	store   quiz.Storage
	rng     *randx.LockedRand
	logger  *slog.Logger
}

// NewQuizHandler creates the quiz handler.
func NewQuizHandler(service *analytics.Service, store quiz.Storage, rng *randx.LockedRand, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{service: service, store: store, rng: rng, logger: logger}
}

// RegisterRoutes registers the quiz routes.
func (h *QuizHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/quiz/sessions")
	group.POST("", h.handleStart)
	group.GET("/:id", h.handleStatus)
	group.POST("/:id/answers", h.handleAnswer)
	group.DELETE("/:id", h.handleDelete)
}

type startQuizRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type startQuizResponse struct {
	SessionID string    `json:"session_id"`
	Total     int       `json:"total"`
	Index     int       `json:"index"`
	Question  quiz.View `json:"question"`
}

type quizStatusResponse struct {
	SessionID string     `json:"session_id"`
	Index     int        `json:"index"`
	Score     int        `json:"score"`
	Total     int        `json:"total"`
	Done      bool       `json:"done"`
	Question  *quiz.View `json:"question,omitempty"`
}

type answerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// handleStart samples a fresh question set and opens a session. The body
// may carry an optional date window.
func (h *QuizHandler) handleStart(c *gin.Context) {
	var req startQuizRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}
	window, err := parseWindowValues(req.From, req.To)
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	ctx := c.Request.Context()
	questions, err := h.service.GenerateQuiz(ctx, window)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(questions) == 0 {
		writeError(c, httperror.NewInsufficientData("not enough archive data in this window to build a quiz"))
		return
	}

	session := quiz.NewSession(questions)
	if err := h.store.Create(ctx, session); err != nil {
		writeError(c, err)
		return
	}

	current, _ := session.Current()
	h.logger.Info("quiz_started", "session_id", session.ID, "questions", session.Total())
	c.JSON(http.StatusCreated, startQuizResponse{
		SessionID: session.ID,
		Total:     session.Total(),
		Index:     session.Index,
		Question:  current.Present(h.rng),
	})
}

func (h *QuizHandler) handleStatus(c *gin.Context) {
	sessionID := c.Param("id")
	session, err := h.loadSession(c, sessionID)
	if err != nil {
		return
	}

	resp := quizStatusResponse{
		SessionID: session.ID,
		Index:     session.Index,
		Score:     session.Score,
		Total:     session.Total(),
		Done:      session.Done,
	}
	if current, ok := session.Current(); ok {
		view := current.Present(h.rng)
		resp.Question = &view
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuizHandler) handleAnswer(c *gin.Context) {
	var req answerRequest
	if !bindJSON(c, &req) {
		return
	}

	sessionID := c.Param("id")
	session, err := h.loadSession(c, sessionID)
	if err != nil {
		return
	}

	result := session.Submit(req.Answer)
	if err := h.store.Update(c.Request.Context(), *session); err != nil {
		writeError(c, err)
		return
	}
	if result.Done {
		h.logger.Info("quiz_completed", "session_id", session.ID, "score", result.Score, "total", result.Total)
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) handleDelete(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			writeError(c, httperror.NewSessionNotFound(sessionID))
			return
		}
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// loadSession fetches a session, writing the error response on failure.
func (h *QuizHandler) loadSession(c *gin.Context, sessionID string) (*quiz.Session, error) {
	session, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			writeError(c, httperror.NewSessionNotFound(sessionID))
			return nil, err
		}
		writeError(c, err)
		return nil, err
	}
	return session, nil
}
