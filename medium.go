package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/kv"
	"github.com/redis/go-redis/v9"
)

// OpenMedium opens the durable medium selected by cfg.Backend. The returned close
// function releases the medium's resources and is never nil.
func OpenMedium(cfg StorageConfig) (kv.Medium, func() error, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return kv.NewMemory(), func() error { return nil }, nil
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, nil, errors.New("Storage RedisAddr is required for the redis backend")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return kv.NewRedis(client, cfg.RedisPrefix), client.Close, nil
	case BackendSQLite:
		db, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, errors.New("Storage Backend must be 'memory', 'redis' or 'sqlite'")
	}
}
