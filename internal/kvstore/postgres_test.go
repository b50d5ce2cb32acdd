package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"admin-console/internal/database"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, url, 2, 0)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Pool.Exec(ctx, `DELETE FROM console_state`)
	require.NoError(t, err)

	exerciseStore(t, NewPostgresStore(db.Pool))
}
