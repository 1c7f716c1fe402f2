package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/rs/zerolog/log"
)

func toUserDTO(user *model.User) dto.UserDTO {
	var out dto.UserDTO
	if err := copier.Copy(&out, user); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to copy User model to UserDTO")
	}
	out.Role = string(user.Role)
	return out
}

func toSurveyDTO(survey *model.Survey) dto.SurveyResponseDTO {
	var out dto.SurveyResponseDTO
	if err := copier.Copy(&out, survey); err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Msg("Failed to copy Survey model to SurveyResponseDTO")
	}
	out.Status = string(survey.Status)
	return out
}

func toSurveyDTOs(surveys []model.Survey) []dto.SurveyResponseDTO {
	out := make([]dto.SurveyResponseDTO, 0, len(surveys))
	for i := range surveys {
		out = append(out, toSurveyDTO(&surveys[i]))
	}
	return out
}

func toQuestionDTOs(questions []model.Question) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		item := dto.QuestionDTO{
			ID:           q.ID,
			Text:         q.Text,
			QuestionType: string(q.QuestionType),
			Order:        q.Order,
			Choices:      make([]dto.ChoiceDTO, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			item.Choices = append(item.Choices, dto.ChoiceDTO{ID: c.ID, Text: c.Text, Order: c.Order})
		}
		out = append(out, item)
	}
	return out
}
