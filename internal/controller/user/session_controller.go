package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/service"
	"github.com/rs/zerolog/log"
)

// SessionController exposes the quiz-taking state machine over HTTP. Every
// response is a SessionViewDTO: the in-progress state, or the final result
// when the session completed (explicitly or by running out of time).
type SessionController struct {
	sessionService service.QuizSessionService
}

func NewSessionController(sessionService service.QuizSessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Freezes the quiz's question list into a session snapshot and starts the timer.
// @Tags Sessions
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 201 {object} dto.SessionViewDTO
// @Failure 400 {object} dto.ErrorResponse "Quiz has no questions"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id}/sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	quizID, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.sessionService.Start(controller.CurrentUserID(ctx), quizID)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, view)
}

// PollSession godoc
// @Summary Poll a session's state and remaining time
// @Description Remaining time is recomputed from the wall clock; a session past its limit is auto-submitted.
// @Tags Sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{sid} [get]
func (c *SessionController) PollSession(ctx *gin.Context) {
	view, err := c.sessionService.Poll(ctx.Param("sid"), controller.CurrentUserID(ctx))
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// RecordAnswer godoc
// @Summary Record the selected option for the current question
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param body body dto.AnswerRequest true "Selected option index"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 400 {object} dto.ErrorResponse "Option out of range"
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{sid}/answer [put]
func (c *SessionController) RecordAnswer(ctx *gin.Context) {
	var req dto.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	view, err := c.sessionService.Answer(ctx.Param("sid"), controller.CurrentUserID(ctx), *req.Selected)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// MoveCursor godoc
// @Summary Move the session cursor (next, prev or jump)
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param body body dto.CursorRequest true "Cursor action"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{sid}/cursor [put]
func (c *SessionController) MoveCursor(ctx *gin.Context) {
	var req dto.CursorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	view, err := c.sessionService.Navigate(ctx.Param("sid"), controller.CurrentUserID(ctx), req)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitSession godoc
// @Summary Submit the session and receive the scored result
// @Description Valid with any number of answered questions; unanswered ones score as incorrect.
// @Tags Sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{sid}/submit [post]
func (c *SessionController) SubmitSession(ctx *gin.Context) {
	view, err := c.sessionService.Submit(ctx.Param("sid"), controller.CurrentUserID(ctx))
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	if view.Result != nil && view.Result.Warning != "" {
		log.Warn().Str("sessionID", ctx.Param("sid")).Msg("SubmitSession: attempt not persisted, returning in-memory result")
	}
	ctx.JSON(http.StatusOK, view)
}

// MyAttempts godoc
// @Summary List the caller's attempts for a quiz, newest first
// @Tags Sessions
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Router /quizzes/{id}/my-attempts [get]
func (c *SessionController) MyAttempts(ctx *gin.Context) {
	quizID, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	attempts, err := c.sessionService.MyAttempts(controller.CurrentUserID(ctx), quizID)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}
