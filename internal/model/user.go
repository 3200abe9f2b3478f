package model

import "context"

// UserID is the public identifier of a user. It wraps the accounts table
// primary key so raw integers cannot be passed where a user id is expected.
type UserID int64

// UserIDFrom builds a UserID from a raw primary key value.
func UserIDFrom(id int64) UserID {
	return UserID(id)
}

// Value returns the underlying primary key value.
func (id UserID) Value() int64 {
	return int64(id)
}

// User is the main representation of a user. It carries most of the account
// details except for credential material.
type User struct {
	ID       UserID
	Email    string
	Username string
	Bio      string
	Image    *string
}

// UserEntry is the full persisted account row, credentials included.
// Entries are only ever constructed by the repository when reading rows;
// password and salt are opaque values hashed by the caller beforehand.
type UserEntry struct {
	User
	Password string
	Salt     string
}

// IntoUser discards the credential material.
func (e UserEntry) IntoUser() User {
	return e.User
}

// UserProfile is the public view of a user exposed to other users.
type UserProfile struct {
	UserID    UserID  `json:"-"`
	Username  string  `json:"username"`
	Bio       string  `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// NewBasicProfile returns a placeholder profile for the given user id.
func NewBasicProfile(id UserID) UserProfile {
	return UserProfile{UserID: id}
}

// ProfileDTO is the result of a profile lookup. Following holds the ids the
// looked-up user follows; it is nil when the followings lookup failed, which
// callers must treat as "unknown" rather than "none".
type ProfileDTO struct {
	Username  string   `json:"username"`
	Bio       string   `json:"bio"`
	Image     *string  `json:"image"`
	Following []UserID `json:"following,omitempty"`
}

// UserStore defines persistence operations for user accounts.
type UserStore interface {
	Save(ctx context.Context, user User, password, salt string) (UserID, error)
	GetByEmail(ctx context.Context, email string, uc UseCase) (UserEntry, error)
	GetByID(ctx context.Context, id UserID, uc UseCase) (UserEntry, error)
	GetProfileByUsername(ctx context.Context, username string, uc UseCase) (ProfileDTO, error)
	UpdateByID(ctx context.Context, id UserID, email, bio, image *string) (UserEntry, error)
}
