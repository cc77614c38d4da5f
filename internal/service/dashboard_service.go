package service

import (
	"context"

	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// DashboardSummary is the admin landing-page snapshot.
type DashboardSummary struct {
	TotalExams     int      `json:"total_exams"`
	TotalSubjects  int      `json:"total_subjects"`
	TotalStudents  int      `json:"total_students"`
	RecentSubjects []string `json:"recent_subjects"`
}

type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
	log           zerolog.Logger
}

func NewDashboardService(dashboardRepo *repository.DashboardRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		log:           log.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	exams, subjects, students, err := s.dashboardRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.dashboardRepo.RecentSubjects(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{
		TotalExams:     exams,
		TotalSubjects:  subjects,
		TotalStudents:  students,
		RecentSubjects: recent,
	}, nil
}
