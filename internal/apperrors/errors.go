package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenInvalid         = errors.New("token is invalid")
	ErrTokenExpired         = errors.New("token is expired")
	ErrRefreshTokenMissing  = errors.New("refresh token is missing")
	ErrRefreshTokenMismatch = errors.New("refresh token does not match the stored credential")

	ErrPasswordConfirmMismatch = errors.New("new password and confirmation are not equal")
	ErrPasswordNotChanged      = errors.New("new password must differ from the old one")
	ErrNothingToUpdate         = errors.New("no fields to update")
	ErrSelfSubscription        = errors.New("subscription to own channel")

	ErrVideoNotFound = errors.New("video not found")
	ErrUploadFailed  = errors.New("media upload failed")
)
