package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedis_Namespace(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	r := NewRedis(rdb, "klinik:")

	require.NoError(t, r.Set(ctx, "ks_data_dokter", `{"logs":[]}`))
	assert.True(t, mr.Exists("klinik:ks_data_dokter"))

	v, ok, err := r.Get(ctx, "ks_data_dokter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"logs":[]}`, v)

	keys, err := r.Keys(ctx, "ks_data_")
	require.NoError(t, err)
	assert.Equal(t, []string{"ks_data_dokter"}, keys)

	require.NoError(t, r.Delete(ctx, "ks_data_dokter"))
	_, ok, err = r.Get(ctx, "ks_data_dokter")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_WatchAcrossClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, rdb := newTestRedis(t)
	writer := NewRedis(rdb, "klinik:")
	reader := NewRedis(rdb, "klinik:")

	changes, err := reader.Watch(ctx)
	require.NoError(t, err)
	own, err := writer.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, writer.Set(ctx, "ks_presc_last_sync", `{"ts":1,"id":"presc_1"}`))

	select {
	case c := <-changes:
		assert.Equal(t, "ks_presc_last_sync", c.Key)
		assert.Equal(t, writer.Origin(), c.Origin)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	select {
	case c := <-own:
		t.Fatalf("writer saw its own change: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRedis_GetError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	r := NewRedis(rdb, "")
	mr.SetError("boom")

	_, _, err := r.Get(context.Background(), "k")
	assert.Error(t, err)
}
