package media

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewStore(t *testing.T) {
	t.Parallel()

	t.Run("fail if bucket empty", func(t *testing.T) {
		_, err := NewStore(t.Context(), Config{})

		require.Error(t, err)
	})

	t.Run("aws base url", func(t *testing.T) {
		s, err := NewStore(t.Context(), Config{Bucket: "media", Region: "eu-west-1"})

		require.NoError(t, err)
		assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", s.base)
	})

	t.Run("custom endpoint base url", func(t *testing.T) {
		s, err := NewStore(t.Context(), Config{Bucket: "media", Endpoint: "minio.local:9000"})

		require.NoError(t, err)
		assert.Equal(t, "https://minio.local:9000/media", s.base, "scheme should be added to a bare host")
	})
}

func Test_Store_Upload(t *testing.T) {
	t.Parallel()

	// Fake S3 endpoint that accepts every PUT and remembers the object key
	var gotPath string
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	newStore := func(t *testing.T) *Store {
		s, err := NewStore(t.Context(), Config{
			Endpoint:     srv.URL,
			Bucket:       "media-test",
			AccessKey:    "test-access-key",
			SecretKey:    "test-secret-key",
			UsePathStyle: true,
		})
		require.NoError(t, err, "store should be created without errors")
		return s
	}

	t.Run("upload ok", func(t *testing.T) {
		s := newStore(t)

		localPath := filepath.Join(t.TempDir(), "avatar.png")
		require.NoError(t, os.WriteFile(localPath, []byte("not really a png"), 0o600))

		url, err := s.Upload(t.Context(), localPath)

		require.NoError(t, err)
		assert.Equal(t, "PUT", gotMethod)
		assert.True(t, strings.HasPrefix(gotPath, "/media-test/media/"), "path style key should land under the bucket")
		assert.Equal(t, srv.URL+gotPath, url, "returned URL should point at the stored object")
		assert.True(t, strings.HasSuffix(url, ".png"), "object key keeps the source extension")
	})

	t.Run("fail if file missing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Upload(t.Context(), filepath.Join(t.TempDir(), "nonexistent.png"))

		require.Error(t, err)
	})

	t.Run("fail if path empty", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Upload(t.Context(), "")

		require.Error(t, err)
	})
}

func Test_randomKey(t *testing.T) {
	t.Parallel()

	now := time.Now()
	prefix := fmt.Sprintf("media/%d/%02d/%02d/", now.Year(), now.Month(), now.Day())

	key := randomKey(".mp4")

	assert.True(t, strings.HasPrefix(key, prefix), "key should be date partitioned, got %q", key)
	assert.Regexp(t, regexp.MustCompile(`^media/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.mp4$`), key)

	assert.NotEqual(t, key, randomKey(".mp4"), "keys should be random")
}
