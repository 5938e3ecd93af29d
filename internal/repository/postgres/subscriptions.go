package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const subscribe = `-- name: Subscribe
INSERT INTO subscriptions (subscriber_id, channel_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (r *SubscriptionRepo) Subscribe(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, subscribe, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const unsubscribe = `-- name: Unsubscribe
DELETE FROM subscriptions
WHERE subscriber_id = $1 AND channel_id = $2
`

func (r *SubscriptionRepo) Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, unsubscribe, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getChannelProfile = `-- name: GetChannelProfile
SELECT u.id, u.created_at, u.username, u.email, u.full_name, u.password_hash, u.avatar_url, u.cover_url, u.refresh_token,
       (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscribers,
       (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to,
       EXISTS (SELECT 1
               FROM subscriptions s
               WHERE s.channel_id = u.id AND s.subscriber_id = $2)         AS is_subscribed
FROM users u
WHERE u.username = $1
`

// Counts and the membership flag are computed by the store in one round trip
func (r *SubscriptionRepo) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	rows, _ := r.DB.Query(ctx, getChannelProfile, username, viewerID)
	profile, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.ChannelProfile, error) {
		var p models.ChannelProfile
		u := &p.User
		err := row.Scan(
			&u.ID, &u.CreatedAt, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.AvatarURL, &u.CoverURL, &u.RefreshToken,
			&p.Subscribers, &p.SubscribedTo, &p.IsSubscribed,
		)
		return p, err
	})

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrUserNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}
