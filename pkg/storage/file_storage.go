package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"keyword-seasonality/pkg/logger"
)

// FileStorage writes one indented JSON file per key under a data directory
type FileStorage struct {
	dataDir string
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewFileStorage creates the data directory if needed
func NewFileStorage(config StorageConfig) (*FileStorage, error) {
	if config.DataDir == "" {
		return nil, fmt.Errorf("data_dir cannot be empty")
	}
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStorage{
		dataDir: config.DataDir,
		log:     logger.GetLogger().Component("file_storage"),
	}, nil
}

func (fs *FileStorage) Save(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	filePath, err := fs.getFilePath(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	// Write then rename so readers never see a partial file
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	fs.log.WithFields(map[string]interface{}{
		"key":  key,
		"size": len(jsonData),
	}).Debug("Data saved")
	return nil
}

func (fs *FileStorage) Load(ctx context.Context, key string, dest interface{}) error {
	filePath, err := fs.getFilePath(key)
	if err != nil {
		return err
	}

	fs.mu.RLock()
	jsonData, err := os.ReadFile(filePath)
	fs.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(jsonData, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (fs *FileStorage) Delete(ctx context.Context, key string) error {
	filePath, err := fs.getFilePath(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (fs *FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	filePath, err := fs.getFilePath(key)
	if err != nil {
		return false, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Path returns the file backing key
func (fs *FileStorage) Path(key string) string {
	p, _ := fs.getFilePath(key)
	return p
}

func (fs *FileStorage) getFilePath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(fs.dataDir, key+".json"), nil
}
