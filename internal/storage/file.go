package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/habitlog/internal/store"
)

// FileBackend 把快照存为本地 JSON 文件
// 写入先落临时文件再重命名，避免中途失败留下半截文件
type FileBackend struct {
	path string
}

// NewFileBackend 构造文件后端，path 为空时回退到默认值 habitlog.json
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		path = "habitlog.json"
	}
	if err := ensureParentDir(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &FileBackend{path: path}, nil
}

// Load 读取快照，文件不存在时返回空快照
func (b *FileBackend) Load() (*store.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &store.Snapshot{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, b.path, err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, b.path, err)
	}

	return &snapshot, nil
}

// Save 写入快照
func (b *FileBackend) Save(snapshot *store.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrPersistence, err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrPersistence, b.path, err)
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("storage path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
