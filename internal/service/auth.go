package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/Dan9191/todo-service/internal/repository"
	"github.com/Dan9191/todo-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// timingPassword is hashed once and compared against when a login names an
// unknown email, so both failures pay for one bcrypt comparison.
const timingPassword = "todo-service-unknown-user"

// UserRepository is the user part of the credential store.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs bearer tokens for an identity.
type TokenIssuer interface {
	Issue(identity models.Identity) (string, error)
}

// WelcomeNotifier is told about new accounts.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, user *models.User) error
}

// AuthObserver records authentication outcomes.
type AuthObserver interface {
	AuthEvent(event, outcome string)
}

// AuthService handles registration, login and profile lookup
type AuthService struct {
	repo     UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	log      *logrus.Logger
	notifier WelcomeNotifier
	observer AuthObserver

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService initializes a new auth service
func NewAuthService(repo UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *logrus.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// WithNotifier sets the notifier told about new registrations
func (s *AuthService) WithNotifier(n WelcomeNotifier) *AuthService {
	s.notifier = n
	return s
}

// WithObserver sets the observer of authentication outcomes
func (s *AuthService) WithObserver(o AuthObserver) *AuthService {
	s.observer = o
	return s
}

// RegisterInput is the payload of a registration
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,mailbox"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
}

// LoginInput is the payload of a login
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user with hashed password and returns a token for it
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.AuthResult, error) {
	result, err := s.register(ctx, in)
	s.observe("register", err)
	return result, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*models.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	email := in.Email

	_, err := s.repo.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, errEmailTaken()
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashed,
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = &name
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errEmailTaken()
		}
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Email)
	s.welcome(ctx, user)
	return &models.AuthResult{Token: token, User: user}, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.AuthResult, error) {
	result, err := s.login(ctx, in)
	s.observe("login", err)
	return result, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (*models.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.burnComparison(in.Password)
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Email)
	return &models.AuthResult{Token: token, User: user}, nil
}

// Profile returns the user behind caller
func (s *AuthService) Profile(ctx context.Context, caller *models.Identity) (*models.User, error) {
	if !authenticated(caller) {
		return nil, errAuthRequired
	}
	user, err := s.repo.FindUserByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// burnComparison spends the same bcrypt work as a real password check.
func (s *AuthService) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(timingPassword)
		if err != nil {
			s.log.Warnf("Timing hash not generated: %v", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}

func (s *AuthService) issue(user *models.User) (string, error) {
	return s.tokens.Issue(models.Identity{UserID: user.ID, Email: user.Email})
}

func (s *AuthService) welcome(ctx context.Context, user *models.User) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendWelcome(ctx, user); err != nil {
		s.log.WithField("user_id", user.ID).Warnf("Welcome email not delivered: %v", err)
	}
}

func (s *AuthService) observe(event string, err error) {
	if s.observer == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		}
	}
	s.observer.AuthEvent(event, outcome)
}

func errEmailTaken() *Error {
	return newError(KindConflict, "a user with this email already exists")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
