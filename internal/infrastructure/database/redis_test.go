package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background(), time.Second))

	mr.Close()
	assert.Error(t, client.Ping(context.Background(), time.Second))
}
