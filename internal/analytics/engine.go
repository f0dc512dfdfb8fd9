package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/habitlog/internal/store"
)

// Engine 基于 Store 的当前状态计算只读统计
// 所有方法都显式接收 now，便于测试固定时钟
type Engine struct {
	store *store.Store
}

// HabitCount 表示单个习惯在窗口内的完成次数
type HabitCount struct {
	HabitID string
	Name    string
	Count   int
}

// Summary 汇总窗口内的整体完成情况
type Summary struct {
	Window           Window
	TotalHabits      int
	TotalCompletions int
	Habits           []HabitCount
}

// CalendarPeriod 是日历视图中的一个周期及其完成状态
type CalendarPeriod struct {
	Period    string
	Date      time.Time
	Completed bool
}

// WeekCount 表示某个 ISO 周内的完成次数
type WeekCount struct {
	Week  string
	Count int
}

// HabitStats 汇总单个习惯的统计数据
type HabitStats struct {
	HabitID        string
	Window         Window
	CompletedCount int
	ConsistencyPct float64
	CurrentStreak  int
	LongestStreak  int
}

// NewEngine 构造 Engine
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// CompletionCounts 统计窗口内每个习惯的完成次数
// 没有任何完成记录的习惯不会出现在结果里
func (e *Engine) CompletionCounts(window Window, now time.Time) (map[string]int, error) {
	r, err := window.Resolve(now)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, entry := range e.store.AllEntries() {
		if r.Contains(entry.Date) {
			counts[entry.HabitID]++
		}
	}

	return counts, nil
}

// Summary 返回窗口内的整体统计和按完成次数倒序的习惯排名
func (e *Engine) Summary(window Window, now time.Time) (*Summary, error) {
	counts, err := e.CompletionCounts(window, now)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Window: window, Habits: make([]HabitCount, 0, len(counts))}
	for _, habit := range e.store.ListHabits() {
		count := counts[habit.ID]
		if count == 0 {
			continue
		}
		summary.Habits = append(summary.Habits, HabitCount{HabitID: habit.ID, Name: habit.Name, Count: count})
		summary.TotalCompletions += count
	}
	summary.TotalHabits = len(summary.Habits)

	slices.SortFunc(summary.Habits, func(a, b HabitCount) int {
		if diff := cmp.Compare(b.Count, a.Count); diff != 0 {
			return diff
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return summary, nil
}

// ConsistencyPercentage 计算习惯在窗口内的完成率（0-100）
// 每日习惯按天数计算，每周习惯按窗口覆盖的 ISO 周数计算
// all_time 的分母从习惯创建日起算到今天
func (e *Engine) ConsistencyPercentage(habitID string, window Window, now time.Time) (float64, error) {
	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return 0, err
	}

	r, err := window.Resolve(now)
	if err != nil {
		return 0, err
	}

	start, end, ok := e.effectiveSpan(habit, r, now)
	if !ok {
		return 0, nil
	}

	entries, err := e.store.EntriesFor(habitID)
	if err != nil {
		return 0, err
	}

	var total, completed int
	if habit.Cadence == store.CadenceWeekly {
		start = store.PeriodStart(store.CadenceWeekly, start)
		end = store.PeriodStart(store.CadenceWeekly, end)
		total = daysBetween(start, end)/7 + 1
	} else {
		total = daysBetween(start, end) + 1
	}

	span := Range{Start: start, End: end, Bounded: true}
	for _, entry := range entries {
		if span.Contains(entry.Date) {
			completed++
		}
	}

	if total <= 0 {
		return 0, nil
	}

	pct := float64(completed) / float64(total) * 100
	return min(pct, 100), nil
}

// Stats 一次性返回习惯在窗口内的次数、完成率与连胜
func (e *Engine) Stats(habitID string, window Window, now time.Time) (*HabitStats, error) {
	counts, err := e.CompletionCounts(window, now)
	if err != nil {
		return nil, err
	}

	pct, err := e.ConsistencyPercentage(habitID, window, now)
	if err != nil {
		return nil, err
	}

	current, err := e.CurrentStreak(habitID, now)
	if err != nil {
		return nil, err
	}

	longest, err := e.LongestStreak(habitID)
	if err != nil {
		return nil, err
	}

	return &HabitStats{
		HabitID:        habitID,
		Window:         window,
		CompletedCount: counts[habitID],
		ConsistencyPct: pct,
		CurrentStreak:  current,
		LongestStreak:  longest,
	}, nil
}

// CurrentStreak 计算截至 now 所在周期的连续完成数
// 当前周期未完成时返回 0，即使上一周期已完成
func (e *Engine) CurrentStreak(habitID string, now time.Time) (int, error) {
	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return 0, err
	}

	completed, err := e.completedPeriods(habitID)
	if err != nil {
		return 0, err
	}

	step := -1
	if habit.Cadence == store.CadenceWeekly {
		step = -7
	}

	streak := 0
	cursor := now
	for {
		if _, ok := completed[store.PeriodKey(habit.Cadence, cursor)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, step)
	}

	return streak, nil
}

// LongestStreak 扫描完整历史，返回最长的连续完成周期数
func (e *Engine) LongestStreak(habitID string) (int, error) {
	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return 0, err
	}

	entries, err := e.store.EntriesFor(habitID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	interval := 1
	if habit.Cadence == store.CadenceWeekly {
		interval = 7
	}

	longest, run := 1, 1
	for i := 1; i < len(entries); i++ {
		delta := daysBetween(entries[i-1].Date, entries[i].Date)
		if delta == interval {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	return longest, nil
}

// Calendar 列出窗口内每个周期的完成状态，供日历视图使用
// all_time 从习惯创建日起算到今天
func (e *Engine) Calendar(habitID string, window Window, now time.Time) ([]CalendarPeriod, error) {
	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return nil, err
	}

	r, err := window.Resolve(now)
	if err != nil {
		return nil, err
	}

	start, end, ok := e.effectiveSpan(habit, r, now)
	if !ok {
		return []CalendarPeriod{}, nil
	}

	completed, err := e.completedPeriods(habitID)
	if err != nil {
		return nil, err
	}

	step := 1
	if habit.Cadence == store.CadenceWeekly {
		step = 7
		start = store.PeriodStart(store.CadenceWeekly, start)
		end = store.PeriodStart(store.CadenceWeekly, end)
	}

	var periods []CalendarPeriod
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, step) {
		key := store.PeriodKey(habit.Cadence, cursor)
		_, done := completed[key]
		periods = append(periods, CalendarPeriod{Period: key, Date: cursor, Completed: done})
	}

	return periods, nil
}

// WeeklyProgress 按 ISO 周聚合窗口内的完成次数
// 每日习惯得到每周完成天数，每周习惯得到 0/1
func (e *Engine) WeeklyProgress(habitID string, window Window, now time.Time) ([]WeekCount, error) {
	if _, err := e.store.GetHabit(habitID); err != nil {
		return nil, err
	}

	r, err := window.Resolve(now)
	if err != nil {
		return nil, err
	}

	entries, err := e.store.EntriesFor(habitID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		if r.Contains(entry.Date) {
			counts[store.PeriodKey(store.CadenceWeekly, entry.Date)]++
		}
	}

	weeks := make([]WeekCount, 0, len(counts))
	for week, count := range counts {
		weeks = append(weeks, WeekCount{Week: week, Count: count})
	}

	slices.SortFunc(weeks, func(a, b WeekCount) int {
		return cmp.Compare(a.Week, b.Week)
	})

	return weeks, nil
}

// completedPeriods 把习惯的打卡记录整理成周期键集合
func (e *Engine) completedPeriods(habitID string) (map[string]struct{}, error) {
	entries, err := e.store.EntriesFor(habitID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		set[entry.Period] = struct{}{}
	}
	return set, nil
}

// effectiveSpan 把窗口区间落到具体日期上
// all_time 用习惯创建日到今天；区间为空时 ok 为 false
func (e *Engine) effectiveSpan(habit *store.Habit, r Range, now time.Time) (start, end time.Time, ok bool) {
	today := store.PeriodStart(store.CadenceDaily, now)
	if !r.Bounded {
		if habit.CreatedAt.After(today) {
			return habit.CreatedAt, habit.CreatedAt, true
		}
		return habit.CreatedAt, today, true
	}
	if r.End.Before(r.Start) {
		return time.Time{}, time.Time{}, false
	}
	return r.Start, r.End, true
}

// daysBetween 按日历日计算间隔
// 本地时区有夏令时时，两个零点的差可能是 23 或 25 小时，
// 统一折算到 UTC 的同一日期再相减
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
