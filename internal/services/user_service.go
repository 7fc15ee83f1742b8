package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"opphub/internal/apperrors"
	"opphub/internal/authz"
	"opphub/internal/models"
	"opphub/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string, agency *models.Agency) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, name, email, password string, agency *models.Agency) (*models.User, error) {
	verr := apperrors.NewValidation()
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		verr.Add("name", "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		verr.Add("email", "a valid email is required")
	}
	if len(password) < 8 {
		verr.Add("password", "password must be at least 8 characters")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Persistence("load user", err)
	}
	if existing != nil {
		verr.Add("email", "email is already registered")
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       authz.RoleUser,
		Agency:       agency,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Persistence("create user", err)
	}
	return user, nil
}

// Authenticate returns ErrNotFound for a wrong password as well as an
// unknown email, so login failures do not reveal which one it was.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperrors.Persistence("load user", err)
	}
	if user == nil || user.Disabled {
		return nil, apperrors.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("load user", err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}
