package service

import (
	"errors"
	"log/slog"

	"context"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/service/auth"
	"github.com/memodrop/braindump/internal/store"
)

// UserService provides account registration and authentication.
type UserService interface {
	// Register creates a new user account with a hashed password.
	// Returns ErrUsernameTaken if the username is already registered.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate verifies the credentials and returns the user together
	// with a signed access token.
	// Returns auth.ErrInvalidCredentials when the username or password is
	// wrong; the two cases are indistinguishable to the caller.
	Authenticate(ctx context.Context, username, password string) (*domain.User, string, error)

	// GetUser retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	verify auth.PasswordVerifier
	tokens auth.JWTService
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.JWTService,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, NewServiceError("create_service", "users store cannot be nil", nil)
	}
	if hasher == nil || verifier == nil {
		return nil, NewServiceError("create_service", "password hasher cannot be nil", nil)
	}
	if tokens == nil {
		return nil, NewServiceError("create_service", "token service cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:  users,
		hasher: hasher,
		verify: verifier,
		tokens: tokens,
		logger: logger.With("component", "user_service"),
	}, nil
}

// Register creates a new user account.
func (s *userServiceImpl) Register(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(username, hashed)
	if err != nil {
		return nil, NewServiceError("register", "invalid user data", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("failed to create user", "error", err, "username", username)
		return nil, NewServiceError("register", "failed to save user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Authenticate verifies credentials and issues an access token.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Same error as a wrong password so usernames cannot be probed.
			return nil, "", auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err, "username", username)
		return nil, "", NewServiceError("authenticate", "failed to look up user", err)
	}

	if err := s.verify.Compare(user.HashedPassword, password); err != nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err, "user_id", user.ID)
		return nil, "", NewServiceError("authenticate", "failed to generate token", err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID)
	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
