package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUsernameEmpty is returned when a username is empty.
	ErrUsernameEmpty = errors.New("username cannot be empty")

	// ErrUsernameTooLong is returned when a username exceeds the maximum length.
	ErrUsernameTooLong = errors.New("username cannot exceed 64 characters")

	// ErrPasswordHashEmpty is returned when a user has no password hash set.
	ErrPasswordHashEmpty = errors.New("user password hash cannot be empty")
)

// MaxUsernameLength is the upper bound on username length.
const MaxUsernameLength = 64

// User represents an account. Users own categories and are the targets of
// share contracts, addressed by username.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username and password hash.
// Returns an error if validation fails.
func NewUser(username, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Username == "" {
		return ErrUsernameEmpty
	}

	if len(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	if u.HashedPassword == "" {
		return ErrPasswordHashEmpty
	}

	return nil
}
