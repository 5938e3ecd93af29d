package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
	"github.com/nkiryanov/streamium/internal/repository/postgres"
	"github.com/nkiryanov/streamium/internal/service/auth"
	"github.com/nkiryanov/streamium/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/streamium/internal/service/user"
	"github.com/nkiryanov/streamium/internal/service/video"
	"github.com/nkiryanov/streamium/internal/service/video/historyrecorder"
)

// Uploader stub so handler tests never touch object storage
type uploaderStub struct{}

func (uploaderStub) Upload(_ context.Context, localPath string) (string, error) {
	return "https://cdn.test/media/" + localPath, nil
}

// Recorder that writes synchronously, so history is visible right after
// the request returns
type syncRecorder struct {
	history repository.HistoryRepo
}

func (r syncRecorder) Record(v historyrecorder.View) {
	_ = r.history.AddView(context.Background(), v.UserID, v.VideoID, time.Now())
}

type testEnv struct {
	URL  string
	Auth *auth.AuthService
}

// Full production router over the given transaction
func newTestEnv(t *testing.T, tx pgx.Tx) testEnv {
	t.Helper()

	storage := postgres.NewStorage(tx)

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	})
	require.NoError(t, err, "token manager should be created without errors")

	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User(), uploaderStub{})
	require.NoError(t, err, "auth service couldn't be started")

	userService := user.NewService(storage)
	videoService := video.NewService(storage.Video(), uploaderStub{}, syncRecorder{history: storage.History()})

	handler := NewRouter(authService, userService, videoService, logger.NewNoOpLogger())
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return testEnv{URL: srv.URL, Auth: authService}
}

// Register account straight through the service, no session started
func registerTestUser(t *testing.T, env testEnv, username string) models.User {
	t.Helper()

	u, err := env.Auth.Register(t.Context(), auth.RegisterParams{
		Username:   username,
		FullName:   "Test " + username,
		Email:      username + "@example.com",
		Password:   "StrongEnoughPassword",
		AvatarPath: username + ".png",
	})
	require.NoError(t, err, "test user should be registered without errors")
	return u
}

// Register and login, returns the minted pair for request authorization
func loginTestUser(t *testing.T, env testEnv, username string) (models.User, models.TokenPair) {
	t.Helper()

	registerTestUser(t, env, username)
	u, pair, err := env.Auth.Login(t.Context(), username, "StrongEnoughPassword")
	require.NoError(t, err, "test user should be logged in without errors")
	return u, pair
}

// Send JSON request with optional bearer token, returns response and read body
func doRequest(t *testing.T, method string, url string, body string, accessToken string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(raw)
}

func requireUnmarshal(t *testing.T, body string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), "body should be valid JSON: %s", body)
}
