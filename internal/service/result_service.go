package service

import (
	"context"

	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

type ResultService struct {
	resultRepo *repository.ResultRepository
	log        zerolog.Logger
}

func NewResultService(resultRepo *repository.ResultRepository, log zerolog.Logger) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		log:        log.With().Str("component", "result_service").Logger(),
	}
}

// ListAll returns every result with student and exam context, for staff.
func (s *ResultService) ListAll(ctx context.Context) ([]model.ResultRow, error) {
	return s.resultRepo.ListAll(ctx)
}

// History returns the calling student's own finished attempts.
func (s *ResultService) History(ctx context.Context, userID int) ([]model.HistoryEntry, error) {
	return s.resultRepo.ListByUser(ctx, userID)
}
