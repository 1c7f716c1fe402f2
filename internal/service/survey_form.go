package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
)

const (
	// DatetimeLayout matches <input type="datetime-local">.
	DatetimeLayout = "2006-01-02T15:04"
	DateLayout     = "2006-01-02"
	maxCharField   = 255
)

type surveyFields struct {
	title       string
	description string
	target      string
	discipline  string
	startDate   *time.Time
	endDate     *time.Time
	publish     bool
}

func parseSurveyForm(form dto.SurveyFormDTO) (surveyFields, *ValidationError) {
	verr := &ValidationError{}
	fields := surveyFields{
		title:       strings.TrimSpace(form.Title),
		description: strings.TrimSpace(form.Description),
		target:      strings.TrimSpace(form.Target),
		discipline:  strings.TrimSpace(form.Discipline),
		publish:     form.Action == "publish",
	}
	if fields.title == "" {
		verr.AddField("title", i18n.Error(i18n.KeyFieldRequired))
	}
	for name, value := range map[string]string{"title": fields.title, "target": fields.target, "discipline": fields.discipline} {
		if utf8.RuneCountInString(value) > maxCharField {
			verr.AddField(name, i18n.Error(i18n.KeyFieldTooLong, maxCharField))
		}
	}

	var ok bool
	if fields.startDate, ok = parseDatetime(form.StartDate); !ok {
		verr.AddField("start_date", i18n.Error(i18n.KeyFieldInvalidDatetime))
	}
	if fields.endDate, ok = parseDatetime(form.EndDate); !ok {
		verr.AddField("end_date", i18n.Error(i18n.KeyFieldInvalidDatetime))
	}
	if fields.startDate != nil && fields.endDate != nil && fields.startDate.After(*fields.endDate) {
		verr.AddField("end_date", i18n.Error(i18n.KeySurveyEndBeforeStart))
	}
	return fields, verr
}

func (f surveyFields) apply(survey *model.Survey) {
	survey.Title = f.title
	survey.Description = f.description
	survey.Target = f.target
	survey.Discipline = f.discipline
	survey.StartDate = f.startDate
	survey.EndDate = f.endDate
	if f.publish {
		survey.Status = model.SurveyPublished
	} else {
		survey.Status = model.SurveyDraft
	}
}

// parseDatetime returns (nil, true) for an empty value. Naive values are read as UTC.
func parseDatetime(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{DatetimeLayout, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func parseDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// parseSurveyFilter validates the list filters. An invalid set yields no
// filtering at all, only errors.
func parseSurveyFilter(authorID uint, raw dto.SurveyFilterDTO, disciplines []string) (repository.SurveyFilter, *ValidationError) {
	verr := &ValidationError{}
	filter := repository.SurveyFilter{AuthorID: authorID}

	if status := model.SurveyStatus(strings.TrimSpace(raw.Status)); status != "" {
		if status.Valid() {
			filter.Status = status
		} else {
			verr.AddField("status", i18n.Error(i18n.KeyFieldInvalidChoice, raw.Status))
		}
	}
	if discipline := strings.TrimSpace(raw.Discipline); discipline != "" {
		known := false
		for _, d := range disciplines {
			if d == discipline {
				known = true
				break
			}
		}
		if known {
			filter.Discipline = discipline
		} else {
			verr.AddField("discipline", i18n.Error(i18n.KeyFieldInvalidChoice, raw.Discipline))
		}
	}
	var ok bool
	if filter.StartFrom, ok = parseDate(raw.StartDate); !ok {
		verr.AddField("start_date", i18n.Error(i18n.KeyFieldInvalidDate))
	}
	if filter.EndUntil, ok = parseDate(raw.EndDate); !ok {
		verr.AddField("end_date", i18n.Error(i18n.KeyFieldInvalidDate))
	}

	if verr.HasErrors() {
		return repository.SurveyFilter{AuthorID: authorID}, verr
	}
	return filter, nil
}
