package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// User management errors.
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrSelfDeactivation = errors.New("cannot deactivate own account")
)

// UserService handles account registration and staff management.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// Signup registers a new student account.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		RollNo:       req.RollNo,
		ClassName:    req.ClassName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Msg("Student registered")
	return user, nil
}

// CreateStaff registers a new staff or admin account.
func (s *UserService) CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.User, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("Staff account created")
	return user, nil
}

// ListStaff retrieves all administrative accounts.
func (s *UserService) ListStaff(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListStaff(ctx)
}

// ToggleStaffStatus flips a staff account's active flag. The acting super
// admin cannot deactivate their own account.
func (s *UserService) ToggleStaffStatus(ctx context.Context, actorID, targetID int) error {
	if actorID == targetID {
		return ErrSelfDeactivation
	}
	return s.userRepo.ToggleActive(ctx, targetID)
}
