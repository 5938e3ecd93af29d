package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/streamium/internal/models"
)

type HistoryRepo struct {
	DB DBTX
}

const addView = `-- name: AddView
INSERT INTO watch_history (user_id, video_id, watched_at)
VALUES ($1, $2, $3)
`

func (r *HistoryRepo) AddView(ctx context.Context, userID uuid.UUID, videoID uuid.UUID, watchedAt time.Time) error {
	_, err := r.DB.Exec(ctx, addView, userID, videoID, watchedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const listHistory = `-- name: ListHistory
SELECT v.id, v.owner_id, v.created_at, v.title, v.description, v.video_url, v.thumbnail_url, v.duration, v.is_published,
       u.id, u.username, u.full_name, u.avatar_url,
       h.watched_at
FROM watch_history h
JOIN videos v ON v.id = h.video_id
JOIN users u ON u.id = v.owner_id
WHERE h.user_id = $1
ORDER BY h.watched_at DESC, h.id DESC
`

// Every entry carries the uploader expanded to the minimal projection,
// one uploader per item: videos keep a single owner
func (r *HistoryRepo) ListHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error) {
	rows, _ := r.DB.Query(ctx, listHistory, userID)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.HistoryEntry, error) {
		var e models.HistoryEntry
		v := &e.Video
		u := &e.Uploader
		err := row.Scan(
			&v.ID, &v.OwnerID, &v.CreatedAt, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.Duration, &v.IsPublished,
			&u.ID, &u.Username, &u.FullName, &u.AvatarURL,
			&e.WatchedAt,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
