package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/config"
)

func TestFromCentralConfig_Defaults(t *testing.T) {
	cfg := FromCentralConfig(config.RedisConfig{ReadTimeoutSeconds: 9})

	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 9*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisFromCentral(config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	_, err = NewRedis(Config{})
	assert.Error(t, err)
}
