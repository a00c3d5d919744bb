package services

import (
	"context"

	"github.com/diewo77/talentos/internal/models"
	"github.com/diewo77/talentos/internal/repository"
)

const recentLimit = 5

// Stats summarises the store for the staff dashboard.
type Stats struct {
	TotalPostings      int64                       `json:"total_postings"`
	ActivePostings     int64                       `json:"active_postings"`
	TotalApplications  int64                       `json:"total_applications"`
	PendingReview      int64                       `json:"pending_applications"`
	TalentPool         int64                       `json:"talent_pool"`
	RecentPostings     []models.Posting            `json:"recent_postings"`
	RecentApplications []repository.ApplicationRow `json:"recent_applications"`
}

type DashboardService struct {
	postings     repository.PostingRepository
	applications repository.ApplicationRepository
}

func NewDashboardService(postings repository.PostingRepository, applications repository.ApplicationRepository) *DashboardService {
	return &DashboardService{postings: postings, applications: applications}
}

func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.TotalPostings, err = s.postings.Count(ctx); err != nil {
		return nil, err
	}
	if st.ActivePostings, err = s.postings.CountByStatus(ctx, models.PostingActive); err != nil {
		return nil, err
	}
	if st.TotalApplications, err = s.applications.Count(ctx); err != nil {
		return nil, err
	}
	counts, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	st.PendingReview = counts[models.ApplicationPending]
	st.TalentPool = counts[models.ApplicationTalentPool]
	if st.RecentPostings, err = s.postings.Recent(ctx, recentLimit); err != nil {
		return nil, err
	}
	if st.RecentApplications, err = s.applications.Recent(ctx, recentLimit); err != nil {
		return nil, err
	}
	return &st, nil
}
