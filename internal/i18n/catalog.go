package i18n

// Ukrainian is the primary locale; English is the fallback used when a key
// is missing for the requested locale.
const (
	Ukrainian = "uk"
	English   = "en"
)

const (
	KeyFieldRequired         = "field.required"
	KeyFieldInvalidDatetime  = "field.invalid_datetime"
	KeyFieldInvalidDate      = "field.invalid_date"
	KeyFieldInvalidChoice    = "field.invalid_choice"
	KeyFieldTooLong          = "field.too_long"
	KeyFieldNegative         = "field.negative"
	KeyFieldUnknownItem      = "field.unknown_item"
	KeySurveySaved           = "survey.saved"
	KeySurveyUpdated         = "survey.updated"
	KeySurveyEndBeforeStart  = "survey.end_before_start"
	KeySurveyPublishEmpty    = "survey.publish_without_questions"
	KeySurveyAddQuestion     = "survey.add_question_first"
	KeyFilterInvalid         = "filter.invalid"
	KeyBuilderSaved          = "builder.saved"
	KeyBuilderQuestionErrors = "builder.question_errors"
	KeyBuilderChoiceErrors   = "builder.choice_errors"
	KeyTakeNotStarted        = "take.not_started"
	KeyTakeFinished          = "take.finished"
	KeyTakeNoQuestions       = "take.no_questions"
	KeyTakeAlreadyCompleted  = "take.already_completed"
	KeyTakeAnswerRequired    = "take.answer_required"
	KeyTakeSaveFailed        = "take.save_failed"
	KeyTakeThanks            = "take.thanks"
	KeyAuthInvalidLogin      = "auth.invalid_credentials"
	KeyAuthUsernameTaken     = "auth.username_taken"
	KeyAuthEmailTaken        = "auth.email_taken"
	KeyAuthPasswordMismatch  = "auth.password_mismatch"
	KeyAuthRoleNotAllowed    = "auth.role_not_allowed"
	KeyAuthLoginRequired     = "auth.login_required"
	KeyAuthForbidden         = "auth.forbidden"
	KeyAuthLoggedOut         = "auth.logged_out"
	KeyNotFound              = "not_found"
	KeyInvalidReference      = "invalid_reference"
	KeyBadRequest            = "bad_request"
	KeyInternal              = "internal"
)

var translations = map[string]map[string]string{
	Ukrainian: {
		KeyFieldRequired:         "Обов'язкове поле.",
		KeyFieldInvalidDatetime:  "Введіть коректні дату та час.",
		KeyFieldInvalidDate:      "Введіть коректну дату.",
		KeyFieldInvalidChoice:    "Виберіть коректний варіант. %v немає серед допустимих значень.",
		KeyFieldTooLong:          "Значення має містити не більше %d символів.",
		KeyFieldNegative:         "Значення не може бути від'ємним.",
		KeyFieldUnknownItem:      "Запис #%d не належить до цього опитування.",
		KeySurveySaved:           "Опитування збережено.",
		KeySurveyUpdated:         "Зміни збережено.",
		KeySurveyEndBeforeStart:  "Дата завершення має бути після дати початку.",
		KeySurveyPublishEmpty:    "Неможливо опублікувати опитування без питань.",
		KeySurveyAddQuestion:     "Додайте хоча б одне питання перед публікацією.",
		KeyFilterInvalid:         "Некоректні параметри фільтра.",
		KeyBuilderSaved:          "Питання та варіанти збережено.",
		KeyBuilderQuestionErrors: "Перевірте помилки у списку питань.",
		KeyBuilderChoiceErrors:   "Перевірте помилки у варіантах відповідей.",
		KeyTakeNotStarted:        "Опитування ще не розпочалось.",
		KeyTakeFinished:          "Опитування вже завершено.",
		KeyTakeNoQuestions:       "Це опитування поки не містить питань.",
		KeyTakeAlreadyCompleted:  "Ви вже пройшли це опитування.",
		KeyTakeAnswerRequired:    "Питання \"%s...\" потребує відповіді.",
		KeyTakeSaveFailed:        "Помилка збереження відповідей: %s",
		KeyTakeThanks:            "Дякуємо за проходження опитування!",
		KeyAuthInvalidLogin:      "Введіть правильні ім'я користувача та пароль.",
		KeyAuthUsernameTaken:     "Користувач з таким ім'ям вже існує.",
		KeyAuthEmailTaken:        "Користувач з такою адресою вже існує.",
		KeyAuthPasswordMismatch:  "Паролі не збігаються.",
		KeyAuthRoleNotAllowed:    "Цю роль не можна обрати під час реєстрації.",
		KeyAuthLoginRequired:     "Увійдіть, щоб продовжити.",
		KeyAuthForbidden:         "Недостатньо прав для цієї дії.",
		KeyAuthLoggedOut:         "Ви вийшли з системи.",
		KeyNotFound:              "Не знайдено.",
		KeyInvalidReference:      "Обраний варіант не належить до цього питання.",
		KeyBadRequest:            "Некоректний запит.",
		KeyInternal:              "Внутрішня помилка сервера.",
	},
	English: {
		KeyFieldRequired:         "This field is required.",
		KeyFieldInvalidDatetime:  "Enter a valid date/time.",
		KeyFieldInvalidDate:      "Enter a valid date.",
		KeyFieldInvalidChoice:    "Select a valid choice. %v is not one of the available choices.",
		KeyFieldTooLong:          "Ensure this value has at most %d characters.",
		KeyFieldNegative:         "Ensure this value is greater than or equal to 0.",
		KeyFieldUnknownItem:      "Item #%d does not belong to this survey.",
		KeySurveySaved:           "Survey saved.",
		KeySurveyUpdated:         "Changes saved.",
		KeySurveyEndBeforeStart:  "End date must be after the start date.",
		KeySurveyPublishEmpty:    "A survey without questions cannot be published.",
		KeySurveyAddQuestion:     "Add at least one question before publishing.",
		KeyFilterInvalid:         "Invalid filter parameters.",
		KeyBuilderSaved:          "Questions and choices saved.",
		KeyBuilderQuestionErrors: "Check the errors in the question list.",
		KeyBuilderChoiceErrors:   "Check the errors in the answer choices.",
		KeyTakeNotStarted:        "This survey has not started yet.",
		KeyTakeFinished:          "This survey has already finished.",
		KeyTakeNoQuestions:       "This survey has no questions yet.",
		KeyTakeAlreadyCompleted:  "You have already completed this survey.",
		KeyTakeAnswerRequired:    "Question \"%s...\" requires an answer.",
		KeyTakeSaveFailed:        "Failed to save answers: %s",
		KeyTakeThanks:            "Thank you for completing the survey!",
		KeyAuthInvalidLogin:      "Please enter a correct username and password.",
		KeyAuthUsernameTaken:     "A user with that username already exists.",
		KeyAuthEmailTaken:        "A user with that email already exists.",
		KeyAuthPasswordMismatch:  "The two password fields didn't match.",
		KeyAuthRoleNotAllowed:    "This role cannot be selected at registration.",
		KeyAuthLoginRequired:     "Please log in to continue.",
		KeyAuthForbidden:         "You do not have permission to perform this action.",
		KeyAuthLoggedOut:         "You have been logged out.",
		KeyNotFound:              "Not found.",
		KeyInvalidReference:      "The selected choice does not belong to this question.",
		KeyBadRequest:            "Bad request.",
		KeyInternal:              "Internal server error.",
	},
}

// T returns the translation of key for locale, falling back to Ukrainian, then English,
// then the key itself.
func T(locale, key string) string {
	for _, l := range []string{locale, Ukrainian, English} {
		if m, ok := translations[l]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	return key
}
