package student

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/lshigami/feedback-survey/internal/controller"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
)

type ResponseController struct {
	surveyService   service.SurveyService
	responseService service.ResponseService
}

func NewResponseController(surveyService service.SurveyService, responseService service.ResponseService) *ResponseController {
	return &ResponseController{surveyService: surveyService, responseService: responseService}
}

// AvailableSurveys godoc
// @Summary (Student) Surveys open for the caller
// @Description Published surveys inside their date window that the caller has not completed yet.
// @Tags Student - Responses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SurveyResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Router /surveys/student/ [get]
func (c *ResponseController) AvailableSurveys(ctx *gin.Context) {
	surveys, err := c.surveyService.StudentSurveys(middleware.CurrentUser(ctx))
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, surveys)
}

// Take godoc
// @Summary (Student) Begin or resume a survey
// @Description Returns the questions with the answers saved so far, or redirects when the survey cannot be taken.
// @Tags Student - Responses
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.DataResponse{data=dto.TakeSurveyDTO}
// @Success 303 {object} dto.RedirectResponse "Not open, no questions or already completed"
// @Failure 404 {object} dto.ErrorResponse "No such published survey"
// @Router /responses/take/{survey_id}/ [get]
func (c *ResponseController) Take(ctx *gin.Context) {
	surveyID, ok := controller.ParseID(ctx, "survey_id")
	if !ok {
		return
	}
	outcome, err := c.responseService.Take(middleware.CurrentUser(ctx), surveyID)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	c.render(ctx, outcome)
}

// Submit godoc
// @Summary (Student) Submit answers
// @Description Answers are keyed question_<id>; multiple-choice questions take several values. Either a form post or {"answers": {...}} as JSON.
// @Tags Student - Responses
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Param answers body dto.SubmitAnswersDTO false "Answers as JSON"
// @Success 303 {object} dto.RedirectResponse "Completed, continue to the thank-you page"
// @Failure 404 {object} dto.ErrorResponse "No such survey, or a choice of another question"
// @Failure 422 {object} dto.ErrorResponse "Unanswered questions (data holds the view to re-render)"
// @Failure 500 {object} dto.ErrorResponse "Answers could not be saved"
// @Router /responses/take/{survey_id}/ [post]
func (c *ResponseController) Submit(ctx *gin.Context) {
	surveyID, ok := controller.ParseID(ctx, "survey_id")
	if !ok {
		return
	}
	form, err := submittedAnswers(ctx)
	if err != nil {
		log.Warn().Err(err).Uint("surveyID", surveyID).Msg("Submit: failed to read answers")
		controller.BindError(ctx, err)
		return
	}
	outcome, err := c.responseService.Submit(middleware.CurrentUser(ctx), surveyID, form)
	if err != nil {
		var data any
		if outcome != nil {
			data = outcome.Survey
		}
		controller.Error(ctx, err, data)
		return
	}
	c.render(ctx, outcome)
}

func submittedAnswers(ctx *gin.Context) (url.Values, error) {
	if ctx.ContentType() == binding.MIMEJSON {
		var body dto.SubmitAnswersDTO
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		return url.Values(body.Answers), nil
	}
	if err := ctx.Request.ParseForm(); err != nil {
		return nil, err
	}
	return ctx.Request.PostForm, nil
}

func (c *ResponseController) render(ctx *gin.Context, outcome *service.TakeOutcome) {
	if outcome.Redirect != nil {
		controller.Redirect(ctx, outcome.Redirect.To, outcome.Redirect.Messages...)
		return
	}
	controller.Data(ctx, http.StatusOK, outcome.Survey, outcome.Messages...)
}

// ThankYou godoc
// @Summary (Student) Thank-you page
// @Tags Student - Responses
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.ThankYouDTO
// @Failure 404 {object} dto.ErrorResponse "No such survey"
// @Router /responses/thank-you/{survey_id}/ [get]
func (c *ResponseController) ThankYou(ctx *gin.Context) {
	surveyID, ok := controller.ParseID(ctx, "survey_id")
	if !ok {
		return
	}
	resp, err := c.responseService.ThankYou(middleware.CurrentUser(ctx), surveyID)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
