package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var RedisEnabled = false

// InitRedisClient connects to REDIS_CONN_STRING. An empty connection string
// leaves Redis disabled; callers fall back to in-process state.
func InitRedisClient() error {
	if RedisConnString == "" {
		RedisEnabled = false
		SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}

	opt, err := ParseRedisOption()
	if err != nil {
		return err
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		RedisEnabled = false
		return fmt.Errorf("ping redis: %w", err)
	}

	RedisEnabled = true
	SysLog("Redis is enabled")
	return nil
}

func ParseRedisOption() (*redis.Options, error) {
	opt, err := redis.ParseURL(RedisConnString)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_CONN_STRING: %w", err)
	}
	return opt, nil
}

func CloseRedisClient() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
