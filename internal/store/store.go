package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateName 在习惯名称已存在时返回
	ErrDuplicateName = errors.New("habit name already exists")
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrActivityNotFound 在指定活动不存在时返回
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidCadence 当周期类型不是 daily/weekly 时返回
	ErrInvalidCadence = errors.New("invalid habit cadence")
)

// ParseCadence 归一化并校验周期类型
func ParseCadence(raw string) (Cadence, error) {
	switch Cadence(strings.TrimSpace(strings.ToLower(raw))) {
	case CadenceDaily:
		return CadenceDaily, nil
	case CadenceWeekly:
		return CadenceWeekly, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidCadence, raw)
	}
}

// Store 持有当前会话的习惯、活动与打卡记录
// 所有变更都是纯内存操作，持久化由上层协作方负责
type Store struct {
	habits     map[string]*Habit
	nameIndex  map[string]string
	activities map[string]*Activity
	logs       map[string]map[string]LogEntry
	now        func() time.Time
}

// NewStore 构造空 Store
func NewStore() *Store {
	return &Store{
		habits:     make(map[string]*Habit),
		nameIndex:  make(map[string]string),
		activities: make(map[string]*Activity),
		logs:       make(map[string]map[string]LogEntry),
		now:        time.Now,
	}
}

// WithClock 允许在测试中固定时钟
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// AddHabit 新建习惯，名称去除首尾空白后必须非空且唯一
func (s *Store) AddHabit(name, cadence, description string) (*Habit, error) {
	parsed, err := ParseCadence(cadence)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("habit name is required")
	}
	if _, exists := s.nameIndex[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	habit := &Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Cadence:     parsed,
		Description: strings.TrimSpace(description),
		CreatedAt:   normalizeToDate(s.now()),
	}

	s.habits[habit.ID] = habit
	s.nameIndex[habit.Name] = habit.ID
	return habit, nil
}

// GetHabit 根据 ID 获取习惯
func (s *Store) GetHabit(id string) (*Habit, error) {
	habit, ok := s.habits[id]
	if !ok {
		return nil, ErrHabitNotFound
	}
	return habit, nil
}

// FindHabitByName 根据名称获取习惯
func (s *Store) FindHabitByName(name string) (*Habit, error) {
	id, ok := s.nameIndex[strings.TrimSpace(name)]
	if !ok {
		return nil, ErrHabitNotFound
	}
	return s.habits[id], nil
}

// ListHabits 返回按创建时间、名称排序的习惯列表
func (s *Store) ListHabits() []Habit {
	habits := make([]Habit, 0, len(s.habits))
	for _, habit := range s.habits {
		habits = append(habits, *habit)
	}

	slices.SortFunc(habits, func(a, b Habit) int {
		if diff := a.CreatedAt.Compare(b.CreatedAt); diff != 0 {
			return diff
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return habits
}

// DeleteHabit 删除习惯并级联删除其全部打卡记录
func (s *Store) DeleteHabit(id string) error {
	habit, ok := s.habits[id]
	if !ok {
		return ErrHabitNotFound
	}

	delete(s.nameIndex, habit.Name)
	delete(s.habits, id)
	delete(s.logs, id)
	return nil
}

// ToggleCompletion 翻转习惯在 date 所在周期的完成状态并返回新状态
// 已完成则删除记录，未完成则新增记录，因此连续两次调用恢复原状
func (s *Store) ToggleCompletion(habitID string, date time.Time) (bool, error) {
	habit, ok := s.habits[habitID]
	if !ok {
		return false, ErrHabitNotFound
	}

	period := PeriodKey(habit.Cadence, date)
	entries := s.logs[habitID]
	if entries == nil {
		entries = make(map[string]LogEntry)
		s.logs[habitID] = entries
	}

	if _, completed := entries[period]; completed {
		delete(entries, period)
		return false, nil
	}

	entries[period] = LogEntry{
		HabitID: habitID,
		Period:  period,
		Date:    PeriodStart(habit.Cadence, date),
	}
	return true, nil
}

// IsCompleted 返回习惯在 date 所在周期是否已完成
func (s *Store) IsCompleted(habitID string, date time.Time) (bool, error) {
	habit, ok := s.habits[habitID]
	if !ok {
		return false, ErrHabitNotFound
	}

	_, completed := s.logs[habitID][PeriodKey(habit.Cadence, date)]
	return completed, nil
}

// EntriesFor 返回习惯的全部打卡记录，按日期升序
func (s *Store) EntriesFor(habitID string) ([]LogEntry, error) {
	if _, ok := s.habits[habitID]; !ok {
		return nil, ErrHabitNotFound
	}

	entries := make([]LogEntry, 0, len(s.logs[habitID]))
	for _, entry := range s.logs[habitID] {
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b LogEntry) int {
		return a.Date.Compare(b.Date)
	})

	return entries, nil
}

// AllEntries 返回所有习惯的打卡记录，按日期、习惯升序
func (s *Store) AllEntries() []LogEntry {
	var entries []LogEntry
	for _, byPeriod := range s.logs {
		for _, entry := range byPeriod {
			entries = append(entries, entry)
		}
	}

	slices.SortFunc(entries, func(a, b LogEntry) int {
		if diff := a.Date.Compare(b.Date); diff != 0 {
			return diff
		}
		return cmp.Compare(a.HabitID, b.HabitID)
	})

	return entries
}

// AddActivity 新建一次性活动
func (s *Store) AddActivity(name string, date time.Time, notes string) (*Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("activity name is required")
	}

	activity := &Activity{
		ID:    uuid.NewString(),
		Name:  name,
		Date:  normalizeToDate(date),
		Notes: strings.TrimSpace(notes),
	}

	s.activities[activity.ID] = activity
	return activity, nil
}

// DeleteActivity 删除一次性活动
func (s *Store) DeleteActivity(id string) error {
	if _, ok := s.activities[id]; !ok {
		return ErrActivityNotFound
	}
	delete(s.activities, id)
	return nil
}

// ListActivities 返回按日期倒序、名称升序排序的活动列表
func (s *Store) ListActivities() []Activity {
	activities := make([]Activity, 0, len(s.activities))
	for _, activity := range s.activities {
		activities = append(activities, *activity)
	}

	slices.SortFunc(activities, func(a, b Activity) int {
		if diff := b.Date.Compare(a.Date); diff != 0 {
			return diff
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return activities
}

// Clear 清空全部数据
func (s *Store) Clear() {
	s.habits = make(map[string]*Habit)
	s.nameIndex = make(map[string]string)
	s.activities = make(map[string]*Activity)
	s.logs = make(map[string]map[string]LogEntry)
}

// Snapshot 导出当前完整状态
func (s *Store) Snapshot() *Snapshot {
	snapshot := &Snapshot{
		Habits:     s.ListHabits(),
		Activities: s.ListActivities(),
		Logs:       s.AllEntries(),
	}
	return snapshot
}

// Restore 用快照重建内存状态
// 孤儿记录（习惯不存在）和周期键与习惯周期不匹配的记录会被丢弃
func (s *Store) Restore(snapshot *Snapshot) {
	s.Clear()
	if snapshot == nil {
		return
	}

	for _, habit := range snapshot.Habits {
		h := habit
		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" || h.ID == "" {
			continue
		}
		if _, exists := s.nameIndex[h.Name]; exists {
			continue
		}
		h.CreatedAt = normalizeToDate(h.CreatedAt)
		s.habits[h.ID] = &h
		s.nameIndex[h.Name] = h.ID
	}

	for _, activity := range snapshot.Activities {
		a := activity
		if a.ID == "" || strings.TrimSpace(a.Name) == "" {
			continue
		}
		a.Date = normalizeToDate(a.Date)
		s.activities[a.ID] = &a
	}

	for _, entry := range snapshot.Logs {
		habit, ok := s.habits[entry.HabitID]
		if !ok {
			continue
		}
		if !validPeriod(habit.Cadence, entry.Period) {
			continue
		}
		// Date 一律从周期键重建，避免手改过的快照里两者不一致
		date, ok := periodDate(habit.Cadence, entry.Period)
		if !ok {
			continue
		}
		if s.logs[entry.HabitID] == nil {
			s.logs[entry.HabitID] = make(map[string]LogEntry)
		}
		entry.Date = date
		s.logs[entry.HabitID][entry.Period] = entry
	}
}
