package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamium/internal/handlers/middleware"
	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
	"github.com/nkiryanov/streamium/internal/service/auth"
	"github.com/nkiryanov/streamium/internal/service/video"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	videoService videoService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)
	withOptionalAuth := middleware.OptionalAuthMiddleware(authService)

	apiusers := http.NewServeMux()

	apiusers.Handle("POST /register", handleRegister(authService, logger))
	apiusers.Handle("POST /login", handleLogin(authService, logger))
	apiusers.Handle("POST /refreshtoken", handleTokenRefresh(authService, logger))

	apiusers.Handle("POST /logout", withAuth(handleLogout(authService, logger)))
	apiusers.Handle("POST /changepassword", withAuth(handleChangePassword(authService, logger)))
	apiusers.Handle("GET /me", withAuth(handleUserMe()))
	apiusers.Handle("PATCH /me", withAuth(handleUpdateProfile(userService, logger)))
	apiusers.Handle("GET /channel/{handle}", withAuth(handleChannelProfile(userService, logger)))
	apiusers.Handle("POST /channel/{handle}/subscription", withAuth(handleSubscribe(userService, logger)))
	apiusers.Handle("DELETE /channel/{handle}/subscription", withAuth(handleUnsubscribe(userService, logger)))
	apiusers.Handle("GET /history", withAuth(handleWatchHistory(userService, logger)))

	apivideos := http.NewServeMux()

	apivideos.Handle("POST /{$}", withAuth(handlePublishVideo(videoService, logger)))
	apivideos.Handle("GET /{id}", withOptionalAuth(handleGetVideo(videoService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/users/", http.StripPrefix("/api/users", apiusers))
	root.Handle("/api/videos/", http.StripPrefix("/api/videos", apivideos))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user, no session is started
	// Has to return apperrors.ErrUserAlreadyExists if handle or email is taken
	// and apperrors.ErrUploadFailed if the avatar or cover upload did not complete
	Register(ctx context.Context, p auth.RegisterParams) (models.User, error)

	// Login with username or email
	// Has to return apperrors.ErrUserNotFound if no account matches and
	// apperrors.ErrInvalidCredentials if the password does not verify
	Login(ctx context.Context, login string, password string) (models.User, models.TokenPair, error)

	// Rotate tokens using a refresh token
	// Expired: apperrors.ErrTokenExpired
	// Malformed or revoked: apperrors.ErrTokenInvalid / ErrRefreshTokenMismatch
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Clear the stored refresh credential, idempotent
	Logout(ctx context.Context, userID uuid.UUID) error

	// Replace the password hash after verifying the old secret
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error

	// Resolve the calling user or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)

	// Session channel: set or clear both named token values on the response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
	ClearTokenPair(w http.ResponseWriter)

	// Get refresh token from the request cookie
	RefreshStringFromRequest(r *http.Request) (string, bool)
}

type userService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg repository.UpdateProfileParams) (models.User, error)
	ChannelProfile(ctx context.Context, handle string, viewerID uuid.UUID) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, viewerID uuid.UUID) ([]models.HistoryEntry, error)
	Subscribe(ctx context.Context, viewerID uuid.UUID, handle string) error
	Unsubscribe(ctx context.Context, viewerID uuid.UUID, handle string) error
}

type videoService interface {
	Publish(ctx context.Context, p video.PublishParams) (models.Video, error)
	Get(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (models.Video, error)
}
