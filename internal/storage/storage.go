package storage

import (
	"errors"

	"github.com/habitlog/internal/store"
)

// ErrPersistence 包装底层存储的读写失败，便于上层识别后降级处理
var ErrPersistence = errors.New("persistence failure")

// Backend 是快照持久化的端口
// Store 本身不做 I/O，会话启动时 Load 一次，每次变更后 Save 一次
type Backend interface {
	Load() (*store.Snapshot, error)
	Save(snapshot *store.Snapshot) error
}
