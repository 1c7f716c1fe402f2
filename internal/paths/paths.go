// Package paths holds the public URL layout shared by redirects and routing.
package paths

import "fmt"

const (
	Login            = "/accounts/login/"
	Logout           = "/accounts/logout/"
	Register         = "/accounts/register/"
	PostLogin        = "/accounts/redirect-after-login/"
	StudentSurveys   = "/surveys/student/"
	TeacherDashboard = "/surveys/teacher/"
	ManageSurveys    = "/surveys/teacher/surveys/"
	CreateSurvey     = "/surveys/teacher/surveys/create/"
	Analytics        = "/analytics/"
)

func EditSurvey(id uint) string {
	return fmt.Sprintf("/surveys/teacher/surveys/%d/edit/", id)
}

func QuestionBuilder(id uint) string {
	return fmt.Sprintf("/surveys/teacher/surveys/%d/questions/", id)
}

func TakeSurvey(id uint) string {
	return fmt.Sprintf("/responses/take/%d/", id)
}

func ThankYou(id uint) string {
	return fmt.Sprintf("/responses/thank-you/%d/", id)
}
