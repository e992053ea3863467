package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Username string
	Password string
	// Role is the role picked on the login screen. Empty accepts the
	// user's own role.
	Role string
}

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) Actor() partition.Actor {
	return partition.Actor{Username: s.Username, Name: s.Name}
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*Session, error)

	// Workspace opens the session's role partition and, for consumer roles,
	// reconciles it first.
	Workspace(ctx context.Context, sess *Session) (*partition.Workspace, error)

	Users() []User
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	users []User
	store *kvstore.Store
	repo  *partition.Repository
	fresh *syncer.Freshener
	log   *slog.Logger
	now   func() time.Time
}

func New(repo *partition.Repository, fresh *syncer.Freshener, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &authService{
		users: DemoUsers(),
		store: repo.Store(),
		repo:  repo,
		fresh: fresh,
		log:   log,
		now:   time.Now,
	}
}

func (s *authService) Users() []User {
	return append([]User(nil), s.users...)
}

func (s *authService) find(username string) (User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return User{}, false
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrEmptyCredentials
	}

	user, ok := s.find(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	if role := strings.TrimSpace(req.Role); role != "" && !strings.EqualFold(role, user.Role) {
		return nil, fmt.Errorf("%w: selected %q, user is %q", ErrRoleMismatch, role, user.Role)
	}

	sess := &Session{
		Token:     uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		Name:      user.Name,
		CreatedAt: s.now(),
	}
	s.store.Save(ctx, partition.SessionPrefix+sess.Token, sess)

	// warm both partitions so the dashboard starts from initialized data
	s.repo.LoadGlobalPatients(ctx)
	if _, err := s.Workspace(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", slog.String("username", user.Username), slog.String("role", user.Role))
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := s.Current(ctx, token); err != nil {
		return err
	}
	s.store.Remove(ctx, partition.SessionPrefix+token)
	return nil
}

func (s *authService) Current(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	sess, ok := kvstore.Load[Session](ctx, s.store, partition.SessionPrefix+token)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (s *authService) Workspace(ctx context.Context, sess *Session) (*partition.Workspace, error) {
	ws := s.repo.Open(ctx, sess.Role, sess.Actor())
	if err := s.fresh.EnsureFresh(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
