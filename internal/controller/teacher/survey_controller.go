package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/internal/controller"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/paths"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
)

// SurveyController serves the authoring pages of teachers and admins.
type SurveyController struct {
	surveyService  service.SurveyService
	builderService service.QuestionBuilderService
}

func NewSurveyController(surveyService service.SurveyService, builderService service.QuestionBuilderService) *SurveyController {
	return &SurveyController{surveyService: surveyService, builderService: builderService}
}

// Dashboard godoc
// @Summary (Teacher) Dashboard
// @Description Survey counts and the five most recently updated surveys of the caller.
// @Tags Teacher - Surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TeacherDashboardDTO
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 403 {object} dto.ErrorResponse "Not a teacher or admin"
// @Router /surveys/teacher/ [get]
func (c *SurveyController) Dashboard(ctx *gin.Context) {
	resp, err := c.surveyService.Dashboard(middleware.CurrentUser(ctx))
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary (Teacher) List own surveys
// @Description Paginated by 10, newest first. Invalid filters are reported and ignored.
// @Tags Teacher - Surveys
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft, published or closed"
// @Param discipline query string false "One of the caller's disciplines"
// @Param start_date query string false "Earliest start day (YYYY-MM-DD)"
// @Param end_date query string false "Latest end day (YYYY-MM-DD)"
// @Param page query int false "Page number, from 1"
// @Success 200 {object} dto.SurveyPageDTO
// @Failure 404 {object} dto.ErrorResponse "Page out of range"
// @Router /surveys/teacher/surveys/ [get]
func (c *SurveyController) List(ctx *gin.Context) {
	var filter dto.SurveyFilterDTO
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.surveyService.ListOwned(middleware.CurrentUser(ctx), filter)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary (Teacher) Create a survey
// @Description action=publish requests publication, which is refused while the survey has no questions. The survey is then kept as a draft.
// @Tags Teacher - Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param survey body dto.SurveyFormDTO true "Survey fields"
// @Success 303 {object} dto.RedirectResponse "Saved, continue to the management list"
// @Failure 422 {object} dto.ErrorResponse "Field errors, or publish refused (data holds the saved draft)"
// @Router /surveys/teacher/surveys/create/ [post]
func (c *SurveyController) Create(ctx *gin.Context) {
	var form dto.SurveyFormDTO
	if err := ctx.ShouldBind(&form); err != nil {
		controller.BindError(ctx, err)
		return
	}
	survey, err := c.surveyService.Create(middleware.CurrentUser(ctx), form)
	if err != nil {
		controller.Error(ctx, err, survey)
		return
	}
	log.Info().Uint("surveyID", survey.ID).Str("status", survey.Status).Msg("Survey created")
	controller.Redirect(ctx, paths.ManageSurveys, i18n.Success(i18n.KeySurveySaved))
}

// Edit godoc
// @Summary (Teacher) Get a survey for editing
// @Tags Teacher - Surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.SurveyResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Not found or not owned by the caller"
// @Router /surveys/teacher/surveys/{id}/edit/ [get]
func (c *SurveyController) Edit(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	survey, err := c.surveyService.GetOwned(middleware.CurrentUser(ctx), id)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, survey)
}

// Update godoc
// @Summary (Teacher) Update a survey
// @Tags Teacher - Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Param survey body dto.SurveyFormDTO true "Survey fields"
// @Success 303 {object} dto.RedirectResponse "Saved, continue to the management list"
// @Failure 404 {object} dto.ErrorResponse "Not found or not owned by the caller"
// @Failure 422 {object} dto.ErrorResponse "Field errors, or publish refused (data holds the saved draft)"
// @Router /surveys/teacher/surveys/{id}/edit/ [post]
func (c *SurveyController) Update(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var form dto.SurveyFormDTO
	if err := ctx.ShouldBind(&form); err != nil {
		controller.BindError(ctx, err)
		return
	}
	survey, err := c.surveyService.Update(middleware.CurrentUser(ctx), id, form)
	if err != nil {
		controller.Error(ctx, err, survey)
		return
	}
	controller.Redirect(ctx, paths.ManageSurveys, i18n.Success(i18n.KeySurveyUpdated))
}

// Questions godoc
// @Summary (Teacher) Question builder
// @Description The survey with its ordered questions and their choices.
// @Tags Teacher - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.QuestionBuilderDTO
// @Failure 404 {object} dto.ErrorResponse "Not found or not owned by the caller"
// @Router /surveys/teacher/surveys/{id}/questions/ [get]
func (c *SurveyController) Questions(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	builder, err := c.builderService.Get(middleware.CurrentUser(ctx), id)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, builder)
}

// SaveQuestions godoc
// @Summary (Teacher) Save questions and choices
// @Description The question list is saved atomically first. Choice lists are keyed by question id (or new-<row> for rows added in the same request) and saved one question at a time.
// @Tags Teacher - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Param builder body dto.QuestionBuilderSubmitDTO true "Question rows and choice sub-forms"
// @Success 303 {object} dto.RedirectResponse "Saved, reload the builder"
// @Failure 404 {object} dto.ErrorResponse "Not found or not owned by the caller"
// @Failure 422 {object} dto.ErrorResponse "Question or choice errors (data holds the stored state)"
// @Router /surveys/teacher/surveys/{id}/questions/ [post]
func (c *SurveyController) SaveQuestions(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var form dto.QuestionBuilderSubmitDTO
	if err := ctx.ShouldBindJSON(&form); err != nil {
		controller.BindError(ctx, err)
		return
	}
	builder, err := c.builderService.Save(middleware.CurrentUser(ctx), id, form)
	if err != nil {
		controller.Error(ctx, err, builder)
		return
	}
	controller.Redirect(ctx, paths.QuestionBuilder(id), i18n.Success(i18n.KeyBuilderSaved))
}
