package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// List returns subjects, optionally filtered by course and year.
// A zero courseID or year disables that filter.
func (s *SubjectService) List(ctx context.Context, courseID, year int) ([]model.Subject, error) {
	return s.subjectRepo.List(ctx, courseID, year)
}

func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	return s.subjectRepo.Create(ctx, sub)
}

func (s *SubjectService) Update(ctx context.Context, sub *model.Subject) error {
	return s.subjectRepo.Update(ctx, sub)
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrRecordInUse
		}
		return err
	}
	return nil
}
