package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/habitlog/internal/analytics"
	"github.com/habitlog/internal/storage"
	"github.com/habitlog/internal/store"
)

// TrackerService 负责协调内存 Store 与持久化后端
// 会话启动时 Load 一次，之后每个变更操作成功后同步 Save
// Save 失败不回滚内存状态：返回的 error 会包装 storage.ErrPersistence，
// 调用方据此把它当作警告而非失败处理
//
// 规约上同一时间只有一个会话在用 Store，这里仍加读写锁，
// 避免 HTTP 层并发请求直接踩坏内部 map
type TrackerService struct {
	mu      sync.RWMutex
	store   *store.Store
	engine  *analytics.Engine
	backend storage.Backend
}

// NewTrackerService 构造 TrackerService
func NewTrackerService(s *store.Store, backend storage.Backend) *TrackerService {
	return &TrackerService{
		store:   s,
		engine:  analytics.NewEngine(s),
		backend: backend,
	}
}

// Load 从后端恢复快照，后端为空时得到全新状态
func (s *TrackerService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.store.Restore(snapshot)
	return nil
}

// persist 把当前快照写入后端，失败时只记录并返回包装后的警告
func (s *TrackerService) persist() error {
	if err := s.backend.Save(s.store.Snapshot()); err != nil {
		log.Printf("warning: snapshot save failed, in-memory state kept: %v", err)
		return err
	}
	return nil
}

// AddHabit 新建习惯并持久化
func (s *TrackerService) AddHabit(name, cadence, description string) (*store.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit, err := s.store.AddHabit(name, cadence, description)
	if err != nil {
		return nil, err
	}
	return habit, s.persist()
}

// DeleteHabit 删除习惯（级联删除打卡记录）并持久化
func (s *TrackerService) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteHabit(id); err != nil {
		return err
	}
	return s.persist()
}

// ToggleCompletion 翻转完成状态并持久化，返回新状态
func (s *TrackerService) ToggleCompletion(habitID string, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed, err := s.store.ToggleCompletion(habitID, date)
	if err != nil {
		return false, err
	}
	return completed, s.persist()
}

// AddActivity 新建一次性活动并持久化
func (s *TrackerService) AddActivity(name string, date time.Time, notes string) (*store.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity, err := s.store.AddActivity(name, date, notes)
	if err != nil {
		return nil, err
	}
	return activity, s.persist()
}

// DeleteActivity 删除一次性活动并持久化
func (s *TrackerService) DeleteActivity(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteActivity(id); err != nil {
		return err
	}
	return s.persist()
}

// ClearAll 清空全部数据并持久化
func (s *TrackerService) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	return s.persist()
}

// GetHabit 查询单个习惯
func (s *TrackerService) GetHabit(id string) (*store.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetHabit(id)
}

// ListHabits 查询全部习惯
func (s *TrackerService) ListHabits() []store.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.ListHabits()
}

// ListActivities 查询全部一次性活动
func (s *TrackerService) ListActivities() []store.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.ListActivities()
}

// IsCompleted 查询习惯在 date 所在周期是否完成
func (s *TrackerService) IsCompleted(habitID string, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IsCompleted(habitID, date)
}

// Snapshot 导出当前快照，供导出接口使用
func (s *TrackerService) Snapshot() *store.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Snapshot()
}

// Summary 窗口内整体统计
func (s *TrackerService) Summary(window analytics.Window, now time.Time) (*analytics.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Summary(window, now)
}

// Stats 单个习惯的窗口统计与连胜
func (s *TrackerService) Stats(habitID string, window analytics.Window, now time.Time) (*analytics.HabitStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Stats(habitID, window, now)
}

// Calendar 单个习惯的日历数据
func (s *TrackerService) Calendar(habitID string, window analytics.Window, now time.Time) ([]analytics.CalendarPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Calendar(habitID, window, now)
}

// WeeklyProgress 单个习惯按 ISO 周聚合的完成次数
func (s *TrackerService) WeeklyProgress(habitID string, window analytics.Window, now time.Time) ([]analytics.WeekCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.WeeklyProgress(habitID, window, now)
}
