package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/habitlog/internal/storage"
	"github.com/habitlog/internal/store"
)

// failingBackend 模拟保存失败的后端
type failingBackend struct {
	saves int
}

func (b *failingBackend) Load() (*store.Snapshot, error) {
	return &store.Snapshot{}, nil
}

func (b *failingBackend) Save(*store.Snapshot) error {
	b.saves++
	return storage.ErrPersistence
}

func newFileTracker(t *testing.T) (*TrackerService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitlog.json")
	backend, err := storage.NewFileBackend(path)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	tracker := NewTrackerService(store.NewStore(), backend)
	if err := tracker.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return tracker, path
}

func TestTrackerPersistsAfterEveryMutation(t *testing.T) {
	tracker, path := newFileTracker(t)

	habit, err := tracker.AddHabit("晨跑", "daily", "")
	if err != nil {
		t.Fatalf("AddHabit returned error: %v", err)
	}

	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	if _, err := tracker.ToggleCompletion(habit.ID, day); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}

	// 重新加载同一文件，状态应完整恢复
	backend, err := storage.NewFileBackend(path)
	if err != nil {
		t.Fatalf("failed to reopen backend: %v", err)
	}
	reloaded := NewTrackerService(store.NewStore(), backend)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	done, err := reloaded.IsCompleted(habit.ID, day)
	if err != nil {
		t.Fatalf("IsCompleted returned error: %v", err)
	}
	if !done {
		t.Fatal("expected completion to survive reload")
	}
}

func TestTrackerKeepsMutationWhenSaveFails(t *testing.T) {
	backend := &failingBackend{}
	tracker := NewTrackerService(store.NewStore(), backend)
	if err := tracker.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	habit, err := tracker.AddHabit("晨跑", "daily", "")
	if !errors.Is(err, storage.ErrPersistence) {
		t.Fatalf("expected persistence warning, got %v", err)
	}
	if habit == nil {
		t.Fatal("expected habit to be returned despite save failure")
	}

	// 内存状态仍然生效
	if got := len(tracker.ListHabits()); got != 1 {
		t.Fatalf("expected habit to stay in memory, got %d habits", got)
	}
	if backend.saves != 1 {
		t.Fatalf("expected 1 save attempt, got %d", backend.saves)
	}
}

func TestTrackerDomainErrorsPassThrough(t *testing.T) {
	tracker, _ := newFileTracker(t)

	if _, err := tracker.AddHabit("晨跑", "daily", ""); err != nil {
		t.Fatalf("AddHabit returned error: %v", err)
	}
	if _, err := tracker.AddHabit("晨跑", "daily", ""); !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := tracker.DeleteHabit("missing"); !errors.Is(err, store.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestTrackerClearAll(t *testing.T) {
	tracker, _ := newFileTracker(t)

	if _, err := tracker.AddHabit("晨跑", "daily", ""); err != nil {
		t.Fatalf("AddHabit returned error: %v", err)
	}
	if _, err := tracker.AddActivity("搬家", time.Now(), ""); err != nil {
		t.Fatalf("AddActivity returned error: %v", err)
	}

	if err := tracker.ClearAll(); err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}

	if len(tracker.ListHabits()) != 0 || len(tracker.ListActivities()) != 0 {
		t.Fatal("expected empty state after ClearAll")
	}
}
