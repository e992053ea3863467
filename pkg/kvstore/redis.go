package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Redis keeps values under a namespace prefix and announces every write on
// the "<namespace>changes" channel so other processes can react.
type Redis struct {
	rdb    *goredis.Client
	ns     string
	origin string
}

var _ Backend = (*Redis)(nil)

func NewRedis(rdb *goredis.Client, namespace string) *Redis {
	return &Redis{rdb: rdb, ns: namespace, origin: uuid.NewString()}
}

func (r *Redis) Origin() string  { return r.origin }
func (r *Redis) channel() string { return r.ns + "changes" }

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.ns+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.write(ctx, Change{Key: key, Origin: r.origin}, func(p goredis.Pipeliner) {
		p.Set(ctx, r.ns+key, value, 0)
	})
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.write(ctx, Change{Key: key, Origin: r.origin, Removed: true}, func(p goredis.Pipeliner) {
		p.Del(ctx, r.ns+key)
	})
}

func (r *Redis) write(ctx context.Context, c Change, op func(goredis.Pipeliner)) error {
	msg, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		op(p)
		p.Publish(ctx, r.channel(), msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write %s: %w", c.Key, err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, r.ns+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.ns))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	return keys, nil
}

// Watch subscribes to the change channel. The subscription is confirmed
// before returning, so writes made afterwards are never missed.
func (r *Redis) Watch(ctx context.Context) (<-chan Change, error) {
	ps := r.rdb.Subscribe(ctx, r.channel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Change, watchBuffer)
	msgs := ps.Channel()

	go func() {
		defer close(out)
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var c Change
				if err := json.Unmarshal([]byte(m.Payload), &c); err != nil {
					slog.Warn("kvstore: dropping malformed change", slog.String("payload", m.Payload))
					continue
				}
				if c.Origin == r.origin {
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
