package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrRecordInUse is returned when a delete is blocked by dependent rows.
var ErrRecordInUse = errors.New("record is referenced by other data")

// pgForeignKeyViolation is the PostgreSQL error code for FK violations.
const pgForeignKeyViolation = "23503"

type CourseService struct {
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

func NewCourseService(courseRepo *repository.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) GetAll(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

func (s *CourseService) Create(ctx context.Context, c *model.Course) error {
	return s.courseRepo.Create(ctx, c)
}

func (s *CourseService) Update(ctx context.Context, c *model.Course) error {
	return s.courseRepo.Update(ctx, c)
}

// Delete removes a course unless subjects still reference it.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrRecordInUse
		}
		return err
	}
	return nil
}
