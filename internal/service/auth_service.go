package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/blog/internal/db"
	"github.com/example/blog/internal/models"
	"github.com/example/blog/internal/repository"
	"github.com/example/blog/internal/session"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrCredentialsRequired = errors.New("username and password required")
)

type AuthService struct {
	users    *repository.UserRepository
	sessions *session.RedisStore
	logger   *slog.Logger
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(database *db.Database, sessions *session.RedisStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    repository.NewUserRepository(database.Gorm),
		sessions: sessions,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// WithHashCost sets the bcrypt cost for new passwords.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return u, nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// same bcrypt work as a real account so timing does not reveal usernames
		_ = bcrypt.CompareHashAndPassword(s.unknownUserHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user"), s.cost)
	})
	return s.dummyHash
}

// Login checks the credentials and opens a session, returning its token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, Requester, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", Requester{}, err
	}
	token, err := s.sessions.Create(ctx, session.Session{UserID: u.ID, Username: u.Username, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", Requester{}, err
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	return token, Requester{UserID: u.ID, Username: u.Username}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to a requester. Unknown or expired tokens
// resolve to the anonymous requester without error.
func (s *AuthService) Resolve(ctx context.Context, token string) (Requester, error) {
	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return Requester{}, nil
	}
	if err != nil {
		return Requester{}, err
	}
	return Requester{UserID: sess.UserID, Username: sess.Username}, nil
}
