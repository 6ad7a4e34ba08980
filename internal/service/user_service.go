package service

import (
	"context"
	"errors"
	"strings"

	dom "taskapi/internal/domain"
	"taskapi/internal/repo"
	"taskapi/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user already exists")
	ErrMissingUserFields  = errors.New("username, email and password are required")
)

// UserService handles signup and login.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Signup creates a new user with a bcrypt-hashed password. A duplicate
// username or email yields ErrUserExists.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrMissingUserFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUserExists
		}
		return dom.User{}, err
	}
	return u, nil
}

// Login checks username and password; returns the user if valid. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
