package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `id, owner_id, created_at, title, description, video_url, thumbnail_url, duration, is_published`

const createVideo = `-- name: CreateVideo
INSERT INTO videos (owner_id, title, description, video_url, thumbnail_url, duration, is_published)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + videoColumns

func (r *VideoRepo) CreateVideo(ctx context.Context, arg repository.CreateVideoParams) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, createVideo, arg.OwnerID, arg.Title, arg.Description, arg.VideoURL, arg.ThumbnailURL, arg.Duration, arg.IsPublished)
	video, err := pgx.CollectOneRow(rows, rowToVideo)
	if err != nil {
		return video, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

const getVideoByID = `-- name: GetVideoByID
SELECT ` + videoColumns + `
FROM videos
WHERE id = $1
`

func (r *VideoRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, getVideoByID, videoID)
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.OwnerID, &v.CreatedAt, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.Duration, &v.IsPublished)
	return v, err
}
