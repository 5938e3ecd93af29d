package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/handlers/render"
	"github.com/nkiryanov/streamium/internal/handlers/userctx"
	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/repository"
)

func handleUserMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, toUserResponse(user))
	})
}

func handleUpdateProfile(us userService, l logger.Logger) http.Handler {
	type request struct {
		Email    *string `json:"email" validate:"omitempty,email"`
		FullName *string `json:"fullName" validate:"omitempty,notblank"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, _ := userctx.FromContext(r.Context())

		updated, err := us.UpdateProfile(r.Context(), user.ID, repository.UpdateProfileParams{
			Email:    data.Email,
			FullName: data.FullName,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrNothingToUpdate):
				render.ServiceError(w, "At least one field is required", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "Email is already taken", http.StatusConflict)
			default:
				l.Error("profile update failed", "error", err, "user_id", user.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toUserResponse(updated))
	})
}

func handleChannelProfile(us userService, l logger.Logger) http.Handler {
	type response struct {
		User         userResponse `json:"user"`
		Subscribers  int64        `json:"subscribers"`
		SubscribedTo int64        `json:"subscribedTo"`
		IsSubscribed bool         `json:"isSubscribed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		profile, err := us.ChannelProfile(r.Context(), r.PathValue("handle"), viewer.ID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Channel doesn't exist", http.StatusNotFound)
			default:
				l.Error("channel profile failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			User:         toUserResponse(profile.User),
			Subscribers:  profile.Subscribers,
			SubscribedTo: profile.SubscribedTo,
			IsSubscribed: profile.IsSubscribed,
		})
	})
}

func handleSubscribe(us userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		err := us.Subscribe(r.Context(), viewer.ID, r.PathValue("handle"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Channel doesn't exist", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrSelfSubscription):
				render.ServiceError(w, "Can't subscribe to own channel", http.StatusBadRequest)
			default:
				l.Error("subscribe failed", "error", err, "user_id", viewer.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Subscribed"})
	})
}

func handleUnsubscribe(us userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		err := us.Unsubscribe(r.Context(), viewer.ID, r.PathValue("handle"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Channel doesn't exist", http.StatusNotFound)
			default:
				l.Error("unsubscribe failed", "error", err, "user_id", viewer.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Unsubscribed"})
	})
}

func handleWatchHistory(us userService, l logger.Logger) http.Handler {
	type entry struct {
		Video     videoResponse   `json:"video"`
		Uploader  profileResponse `json:"uploader"`
		WatchedAt time.Time       `json:"watchedAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		history, err := us.WatchHistory(r.Context(), viewer.ID)
		if err != nil {
			l.Error("watch history failed", "error", err, "user_id", viewer.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		entries := make([]entry, 0, len(history))
		for _, h := range history {
			entries = append(entries, entry{
				Video:     toVideoResponse(h.Video),
				Uploader:  toProfileResponse(h.Uploader),
				WatchedAt: h.WatchedAt,
			})
		}

		render.JSON(w, entries)
	})
}
