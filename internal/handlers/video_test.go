package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamium/internal/testutil"
)

func Test_VideoHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(t *testing.T, fn func(env testEnv)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(newTestEnv(t, tx))
		})
	}

	publishBody := `{
		"title": "My clip",
		"description": "About nothing",
		"thumbnailUrl": "https://cdn.test/media/thumb.png",
		"videoPath": "clip.mp4",
		"duration": 17.3,
		"isPublished": true
	}`

	publishVideo := func(t *testing.T, env testEnv, accessToken string) string {
		t.Helper()

		resp, body := doRequest(t, "POST", env.URL+"/api/videos/", publishBody, accessToken)
		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

		var created struct {
			ID string `json:"id"`
		}
		requireUnmarshal(t, body, &created)
		return created.ID
	}

	t.Run("publish", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				user, pair := loginTestUser(t, env, "uploader")

				resp, body := doRequest(t, "POST", env.URL+"/api/videos/", publishBody, pair.Access.Value)

				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
				assert.Contains(t, body, `"title":"My clip"`)
				assert.Contains(t, body, `"videoUrl":"https://cdn.test/media/clip.mp4"`)
				assert.Contains(t, body, `"ownerId":"`+user.ID.String()+`"`)
				assert.Contains(t, body, `"duration":"17.3"`)
			})
		})

		t.Run("unauthorized without token", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				resp, body := doRequest(t, "POST", env.URL+"/api/videos/", publishBody, "")

				require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			})
		})

		t.Run("validation fail", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, pair := loginTestUser(t, env, "uploader")

				resp, body := doRequest(t, "POST", env.URL+"/api/videos/", `{"title": "No file"}`, pair.Access.Value)

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
				assert.Contains(t, body, "validation_failed")
				assert.Contains(t, body, "videoPath")
			})
		})
	})

	t.Run("get", func(t *testing.T) {
		t.Run("anonymous read ok", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, pair := loginTestUser(t, env, "uploader")
				videoID := publishVideo(t, env, pair.Access.Value)

				resp, body := doRequest(t, "GET", env.URL+"/api/videos/"+videoID, "", "")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
				assert.Contains(t, body, `"title":"My clip"`)
			})
		})

		t.Run("not a uuid fails", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				resp, body := doRequest(t, "GET", env.URL+"/api/videos/not-a-uuid", "", "")

				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "Video doesn't exist"
					}`, body)
			})
		})

		t.Run("unknown video fails", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				resp, body := doRequest(t, "GET", env.URL+"/api/videos/"+uuid.NewString(), "", "")

				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)
			})
		})

		t.Run("bad access token still reads", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, pair := loginTestUser(t, env, "uploader")
				videoID := publishVideo(t, env, pair.Access.Value)

				resp, body := doRequest(t, "GET", env.URL+"/api/videos/"+videoID, "", "garbage-token")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "auth is optional for reads. Body: %s", body)
			})
		})
	})
}
