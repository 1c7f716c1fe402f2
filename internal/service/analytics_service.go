package service

import (
	"time"

	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/model"
)

// AnalyticsService only gates the overview for now; no aggregation is computed.
type AnalyticsService interface {
	Overview(caller *model.User) (*dto.AnalyticsOverviewDTO, error)
}

type analyticsService struct {
	now func() time.Time
}

func NewAnalyticsService() AnalyticsService {
	return &analyticsService{now: func() time.Time { return time.Now().UTC() }}
}

func (s *analyticsService) Overview(caller *model.User) (*dto.AnalyticsOverviewDTO, error) {
	if err := RequireRole(caller, teacherRoles...); err != nil {
		return nil, err
	}
	return &dto.AnalyticsOverviewDTO{
		Viewer:      toUserDTO(caller),
		GeneratedAt: s.now(),
		Sections:    []string{},
	}, nil
}
