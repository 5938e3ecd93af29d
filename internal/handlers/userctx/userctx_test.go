package userctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamium/internal/models"
)

func Test_UserContext(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip", func(t *testing.T) {
		user := models.User{ID: uuid.New(), Username: "nk"}

		ctx := New(context.Background(), user)
		got, ok := FromContext(ctx)

		require.True(t, ok)
		require.Equal(t, user, got)
	})

	t.Run("missing user", func(t *testing.T) {
		_, ok := FromContext(context.Background())

		require.False(t, ok)
	})
}
