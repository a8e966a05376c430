package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load for unknown keys
var ErrNotFound = errors.New("key not found")

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// Storage persists JSON-encodable values by key
type Storage interface {
	Save(ctx context.Context, key string, data interface{}) error
	Load(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
