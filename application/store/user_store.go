package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	"memoclient/infrastructure/requestcache"
	pkgerrors "memoclient/pkg/errors"
)

// UserStore is the single source of truth for users already seen from the
// backend, keyed by username.
type UserStore struct {
	mu       sync.RWMutex
	backend  ports.UserService
	logger   *zap.Logger
	requests *requestcache.Group[*domain.User]

	userByUsername map[string]*domain.User
	localSetting   domain.LocalSetting
}

// NewUserStore creates an empty user store
func NewUserStore(backend ports.UserService, logger *zap.Logger) *UserStore {
	return &UserStore{
		backend:        backend,
		logger:         logger,
		requests:       requestcache.New[*domain.User](),
		userByUsername: make(map[string]*domain.User),
	}
}

// Get returns the cached user, if any
func (s *UserStore) Get(username string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.userByUsername[username]
	if !ok {
		return nil, false
	}
	return user.Clone(), true
}

// GetOrFetch returns the cached user or fetches it from the backend.
// Concurrent fetches for the same username are coalesced.
func (s *UserStore) GetOrFetch(ctx context.Context, username string) (*domain.User, error) {
	if user, ok := s.Get(username); ok {
		return user, nil
	}

	return s.requests.GetOrFetch(ctx, username, func(ctx context.Context) (*domain.User, error) {
		s.logger.Debug("fetching user", zap.String("username", username))

		user, err := s.backend.GetUser(ctx, domain.FormatUserName(username))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, pkgerrors.NewNotFoundError("user")
		}

		s.put(user)
		return user.Clone(), nil
	})
}

// Update sends a field-masked user update and replaces the cached entry
// with the confirmed server representation. The cache is untouched on
// failure.
func (s *UserStore) Update(ctx context.Context, user *domain.User, updateMask []string) (*domain.User, error) {
	updated, err := s.backend.UpdateUser(ctx, user, updateMask)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	s.logger.Debug("user updated",
		zap.String("username", updated.Username()),
		zap.Strings("updateMask", updateMask),
	)
	s.put(updated)
	return updated.Clone(), nil
}

// UpdatePassword validates the confirmation locally, then sends a masked
// password update. The confirmation mismatch never reaches the network.
func (s *UserStore) UpdatePassword(ctx context.Context, username, password, confirm string) error {
	change := passwordChange{Password: password, Confirm: confirm}
	if err := validateStruct(change, "password and confirmation do not match"); err != nil {
		return err
	}

	user := &domain.User{
		Name:     domain.FormatUserName(username),
		Password: password,
	}
	_, err := s.Update(ctx, user, []string{"password"})
	return err
}

// LocalSetting returns the client-only preferences of this session
func (s *UserStore) LocalSetting() domain.LocalSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localSetting
}

// SetLocalSetting replaces the client-only preferences
func (s *UserStore) SetLocalSetting(setting domain.LocalSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localSetting = setting
}

func (s *UserStore) put(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userByUsername[user.Username()] = user.Clone()
}
