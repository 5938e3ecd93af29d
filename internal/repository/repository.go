package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/streamium/internal/models"
)

type CreateUserParams struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	AvatarURL    string
	CoverURL     string
}

// Nil fields are left untouched, never overwritten with empty values
type UpdateProfileParams struct {
	Email    *string
	FullName *string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If username or email is taken already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, or by username or email (login)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByLogin(ctx context.Context, login string) (models.User, error)

	// Overwrite the stored refresh credential, nil clears it
	// Plain last-writer-wins UPDATE: no versioning, concurrent writers race
	// and the later write owns the live session
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error

	// Replace the password hash
	SetPasswordHash(ctx context.Context, userID uuid.UUID, hash string) error

	// Apply only the non-nil fields and return the updated user
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg UpdateProfileParams) (models.User, error)
}

type CreateVideoParams struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     decimal.Decimal
	IsPublished  bool
}

// Video repository interface
type VideoRepo interface {
	CreateVideo(ctx context.Context, arg CreateVideoParams) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error)
}

// Subscription repository interface
// Cardinalities and membership live store-side, no graph is kept in process
type SubscriptionRepo interface {
	// Both are idempotent: double subscribe and double unsubscribe are no-ops
	Subscribe(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) error
	Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) error

	// Channel owner with subscriber counts and the viewer membership flag
	// If handle unknown must return apperrors.ErrUserNotFound
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)
}

// Watch history repository interface
type HistoryRepo interface {
	AddView(ctx context.Context, userID uuid.UUID, videoID uuid.UUID, watchedAt time.Time) error

	// Newest first, each entry expanded with the uploader projection
	ListHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error)
}

type Storage interface {
	User() UserRepo
	Video() VideoRepo
	Subscription() SubscriptionRepo
	History() HistoryRepo

	// Run fn within a db transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
