package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MustOpen connects to Redis and fails fast when it cannot be reached.
func MustOpen(ctx context.Context, addr string) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("redis ping fail")
	}
	return client
}
