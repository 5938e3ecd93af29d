package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
)

// Account reads and derived social graph queries
type UserService struct {
	users         repository.UserRepo
	subscriptions repository.SubscriptionRepo
	history       repository.HistoryRepo
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{
		users:         storage.User(),
		subscriptions: storage.Subscription(),
		history:       storage.History(),
	}
}

// GetByID is a pure read of the account record
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile applies only the supplied fields
// Absent fields stay untouched, both absent is a caller error
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, arg repository.UpdateProfileParams) (models.User, error) {
	if arg.Email == nil && arg.FullName == nil {
		return models.User{}, apperrors.ErrNothingToUpdate
	}

	// Stored addresses are lower-cased, same as on registration
	if arg.Email != nil {
		email := normalize(*arg.Email)
		arg.Email = &email
	}
	if arg.FullName != nil {
		fullName := strings.TrimSpace(*arg.FullName)
		arg.FullName = &fullName
	}

	user, err := s.users.UpdateProfile(ctx, userID, arg)
	if err != nil {
		return user, fmt.Errorf("can't update profile. Err: %w", err)
	}

	return user, nil
}

// ChannelProfile joins subscriber counts with the viewer membership flag
func (s *UserService) ChannelProfile(ctx context.Context, handle string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	return s.subscriptions.GetChannelProfile(ctx, normalize(handle), viewerID)
}

// WatchHistory returns the viewer's history, newest first, with each
// entry's uploader expanded to the minimal projection
func (s *UserService) WatchHistory(ctx context.Context, viewerID uuid.UUID) ([]models.HistoryEntry, error) {
	return s.history.ListHistory(ctx, viewerID)
}

func (s *UserService) Subscribe(ctx context.Context, viewerID uuid.UUID, handle string) error {
	channel, err := s.users.GetUserByLogin(ctx, normalize(handle))
	if err != nil {
		return err
	}
	if channel.ID == viewerID {
		return apperrors.ErrSelfSubscription
	}

	return s.subscriptions.Subscribe(ctx, viewerID, channel.ID)
}

func (s *UserService) Unsubscribe(ctx context.Context, viewerID uuid.UUID, handle string) error {
	channel, err := s.users.GetUserByLogin(ctx, normalize(handle))
	if err != nil {
		return err
	}

	return s.subscriptions.Unsubscribe(ctx, viewerID, channel.ID)
}

// Handles and contact addresses compare case-insensitively
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
