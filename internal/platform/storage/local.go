package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore はローカルディスクにファイルを書き込み、静的配信用のパスを返します。
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore は保存先ディレクトリを作成して LocalStore を返します。
func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage: local dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:    dir,
		prefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

// Dir は保存先ディレクトリを返します。
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save はファイルを書き込み、"/uploads/<key>" 形式のパスを返します。
func (s *LocalStore) Save(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, key)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", target, err)
	}

	return strings.TrimSuffix(s.prefix, "/") + "/" + key, nil
}
