package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ogurasousui/hr-records/internal/platform/config"
)

// ErrInvalidKey はストレージキーにパス区切りなどが含まれる場合に返されます。
var ErrInvalidKey = errors.New("storage: invalid key")

// FileStore はアップロードファイルの保存先です。Save は公開パスまたは URL を返します。
type FileStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New は設定に応じたローカルまたは S3 のストアを生成します。
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg.S3)
	case config.StorageDriverLocal, "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicPrefix)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
