package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

// Runs against a live server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	collection := "students-test-" + uuid.NewString()

	store, err := NewRedisStore(ctx, config.StoreConfig{RedisAddr: addr, Collection: collection})
	require.NoError(t, err)
	defer func() {
		ids, _ := store.client.SMembers(ctx, collection).Result()
		for _, id := range ids {
			store.client.Del(ctx, store.key(id))
		}
		store.client.Del(ctx, collection)
		store.Close()
	}()

	id, err := store.Insert(ctx, model.MarkRecord{Name: "Alice", Subject: "Math", Marks: 80, Date: "2024-01-01"})
	require.NoError(t, err)

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.MarkRecord{ID: id, Name: "Alice", Subject: "Math", Marks: 80, Date: "2024-01-01"}, records[0])
}
