package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/service"
	"github.com/rs/zerolog/log"
)

// ContentController groups the admin-only content management endpoints:
// bulk import, quiz and question editing, visibility and deletion.
type ContentController struct {
	contentService service.ContentService
	importService  service.ImportService
}

func NewContentController(contentService service.ContentService, importService service.ImportService) *ContentController {
	return &ContentController{contentService: contentService, importService: importService}
}

// ImportContent godoc
// @Summary Import a subject tree from a JSON document
// @Description Upserts subjects, topics, classes, levels and quizzes by name. Re-imported quizzes get their question list replaced. All-or-nothing.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.ImportDocument true "Import document"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Document failed validation; nothing was written"
// @Security BearerAuth
// @Router /admin/import [post]
func (c *ContentController) ImportContent(ctx *gin.Context) {
	var doc dto.ImportDocument
	if err := ctx.ShouldBindJSON(&doc); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.importService.Import(doc); err != nil {
		controller.Fail(ctx, err)
		return
	}
	log.Info().Str("subject", doc.Subject.Name).Msg("ImportContent: import committed")
	ctx.JSON(http.StatusOK, gin.H{"message": "import completed"})
}

// ListQuizzes godoc
// @Summary List every quiz, hidden ones included
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.AdminQuizDTO
// @Security BearerAuth
// @Router /admin/quizzes [get]
func (c *ContentController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.contentService.AllQuizzesAdmin()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz with questions and correct answers
// @Tags Admin
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.AdminQuizDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/quizzes/{id} [get]
func (c *ContentController) GetQuiz(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.contentService.QuizAdmin(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// UpdateQuizMeta godoc
// @Summary Update a quiz's title, description and time limit
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param body body dto.QuizMetaUpdateRequest true "Quiz metadata"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/quizzes/{id} [put]
func (c *ContentController) UpdateQuizMeta(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuizMetaUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.contentService.UpdateQuizMeta(id, req); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "quiz updated"})
}

// ToggleVisibility godoc
// @Summary Flip a quiz's visibility flag
// @Tags Admin
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.VisibilityDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/quizzes/{id}/visibility [put]
func (c *ContentController) ToggleVisibility(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	visibility, err := c.contentService.ToggleVisibility(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, visibility)
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param body body dto.QuestionRequest true "Question with options and correct index"
// @Success 201 {object} dto.AdminQuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Fewer than two options, or answer index out of range"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/quizzes/{id}/questions [post]
func (c *ContentController) AddQuestion(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	question, err := c.contentService.AddQuestion(id, req)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary Replace a question's text, options and correct answer
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param body body dto.QuestionRequest true "Question with options and correct index"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.contentService.UpdateQuestion(id, req); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "question updated"})
}

// DeleteQuestion godoc
// @Summary Delete a question and its options
// @Tags Admin
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteQuestion(id); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

// DeleteQuiz godoc
// @Summary Delete a quiz with its questions and recorded attempts
// @Tags Admin
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/quizzes/{id} [delete]
func (c *ContentController) DeleteQuiz(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteQuiz(id); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "quiz deleted"})
}

// DeleteSubject godoc
// @Summary Delete a subject and everything beneath it
// @Description Removes the subject's topics, classes, levels, quizzes, questions and attempts.
// @Tags Admin
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/subjects/{id} [delete]
func (c *ContentController) DeleteSubject(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteSubject(id); err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "subject deleted"})
}
