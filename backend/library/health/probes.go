package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func DatabaseProbe(db *gorm.DB) Probe {
	return ProbeFunc{ProbeName: "database", Fn: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func RedisProbe(rdb *redis.Client) Probe {
	return ProbeFunc{ProbeName: "redis", Fn: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}
