package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
	"github.com/nkiryanov/streamium/internal/service/video/historyrecorder"
)

// Object storage collaborator, same contract the auth service consumes
type Uploader interface {
	Upload(ctx context.Context, localPath string) (url string, err error)
}

type ViewRecorder interface {
	Record(v historyrecorder.View)
}

type VideoService struct {
	videos   repository.VideoRepo
	media    Uploader
	recorder ViewRecorder
}

func NewService(videos repository.VideoRepo, media Uploader, recorder ViewRecorder) *VideoService {
	return &VideoService{
		videos:   videos,
		media:    media,
		recorder: recorder,
	}
}

type PublishParams struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	ThumbnailURL string
	LocalPath    string
	Duration     decimal.Decimal
	IsPublished  bool
}

// Publish pushes the media file to object storage and stores the record
func (s *VideoService) Publish(ctx context.Context, p PublishParams) (models.Video, error) {
	var video models.Video

	videoURL, err := s.media.Upload(ctx, p.LocalPath)
	if err != nil {
		return video, fmt.Errorf("%w: video: %w", apperrors.ErrUploadFailed, err)
	}

	video, err = s.videos.CreateVideo(ctx, repository.CreateVideoParams{
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Description:  p.Description,
		VideoURL:     videoURL,
		ThumbnailURL: p.ThumbnailURL,
		Duration:     p.Duration,
		IsPublished:  p.IsPublished,
	})
	if err != nil {
		return video, fmt.Errorf("can't create video. Err: %w", err)
	}

	return video, nil
}

// Get returns the video and, for an authenticated viewer, enqueues a view
// event. Recording never blocks or fails the read.
func (s *VideoService) Get(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (models.Video, error) {
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return video, err
	}

	if viewerID != nil {
		s.recorder.Record(historyrecorder.View{UserID: *viewerID, VideoID: video.ID})
	}

	return video, nil
}
