package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/service"
)

// ContentController serves the taxonomy browsing endpoints backing the
// subject → topic → class → level → quiz navigation.
type ContentController struct {
	contentService service.ContentService
}

func NewContentController(contentService service.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

// ListSubjects godoc
// @Summary List all subjects with their topics
// @Tags Content
// @Produce json
// @Success 200 {array} dto.SubjectDTO
// @Router /subjects [get]
func (c *ContentController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.contentService.Subjects()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// GetSubject godoc
// @Summary Get a subject with its topics
// @Tags Content
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.SubjectDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /subjects/{id} [get]
func (c *ContentController) GetSubject(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	subject, err := c.contentService.Subject(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subject)
}

// GetTopic godoc
// @Summary Get a topic with its classes and breadcrumb
// @Tags Content
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.TopicDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /topics/{id} [get]
func (c *ContentController) GetTopic(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	topic, err := c.contentService.Topic(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// GetClass godoc
// @Summary Get a class with its levels and breadcrumb
// @Tags Content
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} dto.ClassDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id} [get]
func (c *ContentController) GetClass(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	class, err := c.contentService.Class(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, class)
}

// GetLevel godoc
// @Summary Get a level with its quiz listing
// @Description Hidden quizzes are included only for admin callers.
// @Tags Content
// @Produce json
// @Param id path int true "Level ID"
// @Success 200 {object} dto.LevelDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /levels/{id} [get]
func (c *ContentController) GetLevel(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	level, err := c.contentService.Level(id, controller.IsAdmin(ctx))
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, level)
}

// GetLevelQuizzes godoc
// @Summary List the quizzes of a level
// @Description Same filtering as the level view; hidden quizzes are included only for admin callers.
// @Tags Content
// @Produce json
// @Param id path int true "Level ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /levels/{id}/quizzes [get]
func (c *ContentController) GetLevelQuizzes(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	level, err := c.contentService.Level(id, controller.IsAdmin(ctx))
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, level.Quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz with its questions, options and breadcrumb
// @Description Correct answers are withheld; this is the taker-facing view.
// @Tags Content
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id} [get]
func (c *ContentController) GetQuiz(ctx *gin.Context) {
	id, ok := controller.IDParam(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.contentService.QuizDetail(id)
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}
