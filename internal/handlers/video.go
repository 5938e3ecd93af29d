package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/handlers/render"
	"github.com/nkiryanov/streamium/internal/handlers/userctx"
	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/service/video"
)

func handlePublishVideo(vs videoService, l logger.Logger) http.Handler {
	type request struct {
		Title        string  `json:"title" validate:"required"`
		Description  string  `json:"description"`
		ThumbnailURL string  `json:"thumbnailUrl" validate:"required"`
		VideoPath    string  `json:"videoPath" validate:"required"`
		Duration     float64 `json:"duration" validate:"gte=0"`
		IsPublished  bool    `json:"isPublished"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		owner, _ := userctx.FromContext(r.Context())

		published, err := vs.Publish(r.Context(), video.PublishParams{
			OwnerID:      owner.ID,
			Title:        data.Title,
			Description:  data.Description,
			ThumbnailURL: data.ThumbnailURL,
			LocalPath:    data.VideoPath,
			Duration:     decimal.NewFromFloat(data.Duration),
			IsPublished:  data.IsPublished,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUploadFailed):
				render.ServiceError(w, "Video upload failed, retry", http.StatusBadRequest)
			default:
				l.Error("video publish failed", "error", err, "user_id", owner.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, toVideoResponse(published), http.StatusCreated)
	})
}

func handleGetVideo(vs videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		videoID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Video doesn't exist", http.StatusNotFound)
			return
		}

		// Anonymous reads are fine, only authenticated views land in history
		var viewerID *uuid.UUID
		if viewer, ok := userctx.FromContext(r.Context()); ok {
			viewerID = &viewer.ID
		}

		v, err := vs.Get(r.Context(), videoID, viewerID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrVideoNotFound):
				render.ServiceError(w, "Video doesn't exist", http.StatusNotFound)
			default:
				l.Error("video fetch failed", "error", err, "video_id", videoID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toVideoResponse(v))
	})
}
