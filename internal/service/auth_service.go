package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"projecthub/internal/auth"
	apperrors "projecthub/internal/errors"
	"projecthub/internal/model"
	"projecthub/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the credentials and optional profile of a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	FirstName       *string
	LastName        *string
	Phone           *string
	DateOfBirth     *time.Time
	Designation     *string
	Department      *string
	Experience      *string
	Skills          *string
	Address         *string
	City            *string
	State           *string
	Country         *string
	PostalCode      *string
	Bio             *string
	LinkedinProfile *string
	GithubProfile   *string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a user with a hashed password and returns a token for it.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    string(hashedPassword),
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
		DateOfBirth:     in.DateOfBirth,
		Designation:     in.Designation,
		Department:      in.Department,
		Experience:      in.Experience,
		Skills:          in.Skills,
		Address:         in.Address,
		City:            in.City,
		State:           in.State,
		Country:         in.Country,
		PostalCode:      in.PostalCode,
		Bio:             in.Bio,
		LinkedinProfile: in.LinkedinProfile,
		GithubProfile:   in.GithubProfile,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return "", nil, apperrors.ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, created, nil
}

// Login checks the password of the user registered under email.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
