package model

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UseCase tags a storage failure with the high-level operation that was being
// attempted, so the caller can shape a user-facing message without inspecting
// the underlying driver error.
type UseCase string

const (
	UseCaseUserRegister   UseCase = "user registration"
	UseCaseUserLogin      UseCase = "user login"
	UseCaseGetUserProfile UseCase = "get user profile"
	UseCaseUpdateUser     UseCase = "update user"
)

var (
	// ErrNotFound signals that the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals that a request was rejected before any
	// storage access, e.g. an update with no fields to change.
	ErrInvalidInput = errors.New("invalid input")
)

// AppError is the only error type the repository lets past its boundary for
// storage failures. It pairs the failed use case with the underlying cause;
// callers that need the driver detail (such as a unique-violation code)
// reach it through errors.As on the unwrapped cause.
type AppError struct {
	UseCase UseCase
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UseCase, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError is the single conversion point between driver errors and the
// application taxonomy. pgx.ErrNoRows is normalized to ErrNotFound; every
// other cause is kept as-is.
func NewAppError(uc UseCase, err error) *AppError {
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNotFound
	}
	return &AppError{UseCase: uc, Err: err}
}
