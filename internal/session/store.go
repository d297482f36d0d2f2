package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const snapshotKey = "user"

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrValidation)
	ErrEmailInUse         = fmt.Errorf("%w: email already in use", domain.ErrValidation)
	ErrInvalidInput       = fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	ErrNotAuthenticated   = fmt.Errorf("%w: not logged in", domain.ErrValidation)
)

// Store holds at most one authenticated user. A nil current user means the
// session is anonymous.
type Store struct {
	mu      sync.Mutex
	current *domain.User
	users   []FixtureUser
	storage kv.Storage
	toasts  toast.Surface
	log     *zap.Logger
	now     func() time.Time
}

// New restores the persisted session. A snapshot that does not parse is
// deleted and the session starts anonymous.
func New(ctx context.Context, storage kv.Storage, users []FixtureUser, toasts toast.Surface, log *zap.Logger) (*Store, error) {
	s := &Store{
		users:   users,
		storage: storage,
		toasts:  toasts,
		log:     log,
		now:     time.Now,
	}

	var u domain.User
	err := kv.LoadJSON(ctx, storage, snapshotKey, &u)
	if err == nil && u.ID == "" {
		err = fmt.Errorf("%w: user snapshot has no id", kv.ErrCorrupt)
	}
	switch {
	case err == nil:
		s.current = &u
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		log.Warn("discarding unreadable session snapshot", zap.Error(err))
		if errDel := storage.Delete(ctx, snapshotKey); errDel != nil {
			log.Warn("failed to delete session snapshot", zap.Error(errDel))
		}
	default:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (s *Store) Current() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.User{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) IsAdmin() bool {
	u, ok := s.Current()
	return ok && u.Role == domain.RoleAdmin
}

func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.lookup(email)
	if !ok || found.Password != password {
		s.fail("Login failed", "Invalid email or password")
		return domain.User{}, ErrInvalidCredentials
	}

	u := found.User
	if err := s.commit(ctx, &u); err != nil {
		return domain.User{}, err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Login successful",
		Message:  fmt.Sprintf("Welcome back, %s!", u.Name),
		Severity: domain.SeveritySuccess,
	})
	return u, nil
}

// Register signs in a new user with role user. The fixture is not modified,
// so the account only lives as long as the session snapshot.
func (s *Store) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.lookup(email); taken {
		s.fail("Registration failed", "Email already in use")
		return domain.User{}, ErrEmailInUse
	}

	u := domain.User{
		ID:        "user-" + uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: s.now().UTC(),
	}
	if err := s.commit(ctx, &u); err != nil {
		return domain.User{}, err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Registration successful",
		Message:  fmt.Sprintf("Welcome to DigitalStore, %s!", name),
		Severity: domain.SeveritySuccess,
	})
	return u, nil
}

func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, snapshotKey); err != nil {
		s.log.Error("failed to delete session snapshot", zap.Error(err))
		return fmt.Errorf("%w: delete session: %w", domain.ErrExternal, err)
	}
	s.current = nil

	s.toasts.Notify(toast.Signal{
		Title:    "Logged out",
		Message:  "You have been logged out",
		Severity: domain.SeverityInfo,
	})
	return nil
}

// UpdateProfile merges patch into the current user. It fails with
// ErrNotAuthenticated when nobody is logged in.
func (s *Store) UpdateProfile(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.User{}, ErrNotAuthenticated
	}

	u := *s.current
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.User{}, ErrInvalidInput
		}
		u.Name = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return domain.User{}, ErrInvalidInput
		}
		if other, taken := s.lookup(email); taken && other.ID != u.ID {
			return domain.User{}, ErrEmailInUse
		}
		u.Email = email
	}

	if err := s.commit(ctx, &u); err != nil {
		return domain.User{}, err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Profile updated",
		Message:  "Your profile has been updated successfully",
		Severity: domain.SeveritySuccess,
	})
	return u, nil
}

func (s *Store) lookup(email string) (FixtureUser, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return FixtureUser{}, false
}

func (s *Store) fail(title, message string) {
	s.toasts.Notify(toast.Signal{
		Title:    title,
		Message:  message,
		Severity: domain.SeverityError,
	})
}

func (s *Store) commit(ctx context.Context, u *domain.User) error {
	if err := kv.SaveJSON(ctx, s.storage, snapshotKey, u); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
		return fmt.Errorf("%w: persist session: %w", domain.ErrExternal, err)
	}
	s.current = u
	return nil
}
