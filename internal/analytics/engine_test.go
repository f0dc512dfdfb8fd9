package analytics

import (
	"testing"
	"time"

	"github.com/habitlog/internal/store"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func newDailyHabit(t *testing.T, s *store.Store, name string, createdAt time.Time) *store.Habit {
	t.Helper()
	s.WithClock(func() time.Time { return createdAt })
	habit, err := s.AddHabit(name, "daily", "")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return habit
}

func toggle(t *testing.T, s *store.Store, habitID string, at time.Time) {
	t.Helper()
	if _, err := s.ToggleCompletion(habitID, at); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
}

func TestStreaksSkipDayScenario(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))

	// 第 1、2、3 天完成，第 4 天跳过，第 5 天完成
	for _, day := range []int{1, 2, 3, 5} {
		toggle(t, s, habit.ID, date(2024, time.June, day))
	}

	engine := NewEngine(s)
	now := date(2024, time.June, 5)

	current, err := engine.CurrentStreak(habit.ID, now)
	if err != nil {
		t.Fatalf("CurrentStreak returned error: %v", err)
	}
	if current != 1 {
		t.Fatalf("expected current streak 1, got %d", current)
	}

	longest, err := engine.LongestStreak(habit.ID)
	if err != nil {
		t.Fatalf("LongestStreak returned error: %v", err)
	}
	if longest != 3 {
		t.Fatalf("expected longest streak 3, got %d", longest)
	}

	if longest < current {
		t.Fatal("longest streak must never be below current streak")
	}
}

func TestCurrentStreakZeroWhenTodayIncomplete(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))

	toggle(t, s, habit.ID, date(2024, time.June, 1))
	toggle(t, s, habit.ID, date(2024, time.June, 2))

	engine := NewEngine(s)

	// 6 月 3 日未打卡，即使前两天连续完成，当前连胜也归零
	current, err := engine.CurrentStreak(habit.ID, date(2024, time.June, 3))
	if err != nil {
		t.Fatalf("CurrentStreak returned error: %v", err)
	}
	if current != 0 {
		t.Fatalf("expected current streak 0, got %d", current)
	}
}

func TestWeeklyStreaks(t *testing.T) {
	s := store.NewStore().WithClock(func() time.Time { return date(2024, time.February, 1) })
	habit, err := s.AddHabit("周复盘", "weekly", "")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// 2024-W08、W09、W10 连续完成
	toggle(t, s, habit.ID, date(2024, time.February, 20))
	toggle(t, s, habit.ID, date(2024, time.February, 27))
	toggle(t, s, habit.ID, date(2024, time.March, 5))

	engine := NewEngine(s)

	current, err := engine.CurrentStreak(habit.ID, date(2024, time.March, 8))
	if err != nil {
		t.Fatalf("CurrentStreak returned error: %v", err)
	}
	if current != 3 {
		t.Fatalf("expected current streak 3, got %d", current)
	}

	// 下一周尚未打卡时当前连胜归零
	current, err = engine.CurrentStreak(habit.ID, date(2024, time.March, 12))
	if err != nil {
		t.Fatalf("CurrentStreak returned error: %v", err)
	}
	if current != 0 {
		t.Fatalf("expected current streak 0 in 2024-W11, got %d", current)
	}

	longest, err := engine.LongestStreak(habit.ID)
	if err != nil {
		t.Fatalf("LongestStreak returned error: %v", err)
	}
	if longest != 3 {
		t.Fatalf("expected longest streak 3, got %d", longest)
	}
}

func TestStreaksAcrossSpringForwardTransition(t *testing.T) {
	// 2024-03-10 美东进入夏令时，3 月 9 日到 10 日的零点只差 23 小时
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	day := func(d int) time.Time {
		return time.Date(2024, time.March, d, 0, 0, 0, 0, loc)
	}

	s := store.NewStore().WithClock(func() time.Time { return day(1) })
	habit, err := s.AddHabit("锻炼", "daily", "")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	for d := 8; d <= 11; d++ {
		toggle(t, s, habit.ID, day(d))
	}

	engine := NewEngine(s)

	longest, err := engine.LongestStreak(habit.ID)
	if err != nil {
		t.Fatalf("LongestStreak returned error: %v", err)
	}
	if longest != 4 {
		t.Fatalf("expected longest streak 4 across the transition, got %d", longest)
	}

	current, err := engine.CurrentStreak(habit.ID, day(11))
	if err != nil {
		t.Fatalf("CurrentStreak returned error: %v", err)
	}
	if current != 4 {
		t.Fatalf("expected current streak 4, got %d", current)
	}

	// 三月窗口的分母必须仍是 31 天
	pct, err := engine.ConsistencyPercentage(habit.ID, WindowMonth, day(31))
	if err != nil {
		t.Fatalf("ConsistencyPercentage returned error: %v", err)
	}
	want := 4.0 / 31.0 * 100
	if diff := pct - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected consistency %.3f, got %.3f", want, pct)
	}
}

func TestCompletionCountsMonthWindow(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.May, 1))

	// 本月 1 日、15 日、最后一天，外加上个月一条
	toggle(t, s, habit.ID, date(2024, time.June, 1))
	toggle(t, s, habit.ID, date(2024, time.June, 15))
	toggle(t, s, habit.ID, date(2024, time.June, 30))
	toggle(t, s, habit.ID, date(2024, time.May, 20))

	engine := NewEngine(s)

	counts, err := engine.CompletionCounts(WindowMonth, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("CompletionCounts returned error: %v", err)
	}
	if counts[habit.ID] != 3 {
		t.Fatalf("expected 3 completions in month window, got %d", counts[habit.ID])
	}

	counts, err = engine.CompletionCounts(WindowAllTime, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("CompletionCounts returned error: %v", err)
	}
	if counts[habit.ID] != 4 {
		t.Fatalf("expected 4 completions all time, got %d", counts[habit.ID])
	}
}

func TestCompletionCountsZeroAfterHabitDeleted(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))
	toggle(t, s, habit.ID, date(2024, time.June, 1))
	toggle(t, s, habit.ID, date(2024, time.June, 2))

	if err := s.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("DeleteHabit returned error: %v", err)
	}

	engine := NewEngine(s)
	for _, window := range []Window{WindowWeek, WindowMonth, WindowYear, WindowAllTime} {
		counts, err := engine.CompletionCounts(window, date(2024, time.June, 2))
		if err != nil {
			t.Fatalf("CompletionCounts(%s) returned error: %v", window, err)
		}
		if _, ok := counts[habit.ID]; ok {
			t.Fatalf("expected no counts for deleted habit in %s window", window)
		}
	}
}

func TestConsistencyPercentageDaily(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))

	// 本 ISO 周（2024-06-10 周一 至 06-16 周日）完成 3 天
	toggle(t, s, habit.ID, date(2024, time.June, 10))
	toggle(t, s, habit.ID, date(2024, time.June, 12))
	toggle(t, s, habit.ID, date(2024, time.June, 14))

	engine := NewEngine(s)

	pct, err := engine.ConsistencyPercentage(habit.ID, WindowWeek, date(2024, time.June, 14))
	if err != nil {
		t.Fatalf("ConsistencyPercentage returned error: %v", err)
	}

	want := 3.0 / 7.0 * 100
	if diff := pct - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected consistency %.3f, got %.3f", want, pct)
	}
	if pct < 0 || pct > 100 {
		t.Fatalf("consistency out of bounds: %f", pct)
	}
}

func TestConsistencyPercentageWeeklyAllTime(t *testing.T) {
	s := store.NewStore().WithClock(func() time.Time { return date(2024, time.February, 19) })
	habit, err := s.AddHabit("周复盘", "weekly", "")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// 创建于 2024-W08，W08 和 W10 完成，W09 跳过
	toggle(t, s, habit.ID, date(2024, time.February, 20))
	toggle(t, s, habit.ID, date(2024, time.March, 5))

	engine := NewEngine(s)

	// 截至 2024-W10 共 3 个 ISO 周，完成 2 个
	pct, err := engine.ConsistencyPercentage(habit.ID, WindowAllTime, date(2024, time.March, 8))
	if err != nil {
		t.Fatalf("ConsistencyPercentage returned error: %v", err)
	}

	want := 2.0 / 3.0 * 100
	if diff := pct - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected consistency %.3f, got %.3f", want, pct)
	}
}

func TestZeroLogHabitYieldsZeroStats(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))

	engine := NewEngine(s)
	now := date(2024, time.June, 10)

	stats, err := engine.Stats(habit.ID, WindowWeek, now)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.CompletedCount != 0 || stats.ConsistencyPct != 0 || stats.CurrentStreak != 0 || stats.LongestStreak != 0 {
		t.Fatalf("expected all-zero stats for empty log, got %+v", stats)
	}
}

func TestParseWindowRejectsUnknown(t *testing.T) {
	if _, err := ParseWindow("fortnight"); err == nil {
		t.Fatal("expected error for unknown window")
	}

	for _, raw := range []string{"week", "Month", " YEAR ", "all_time"} {
		if _, err := ParseWindow(raw); err != nil {
			t.Fatalf("ParseWindow(%q) returned error: %v", raw, err)
		}
	}
}

func TestResolveWeekWindowIsMondayToSunday(t *testing.T) {
	// 2024-06-12 是周三
	r, err := WindowWeek.Resolve(date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !r.Start.Equal(date(2024, time.June, 10)) {
		t.Fatalf("expected week start Monday 2024-06-10, got %v", r.Start)
	}
	if !r.End.Equal(date(2024, time.June, 16)) {
		t.Fatalf("expected week end Sunday 2024-06-16, got %v", r.End)
	}
}

func TestSummaryRanksHabitsByCount(t *testing.T) {
	s := store.NewStore()
	running := newDailyHabit(t, s, "晨跑", date(2024, time.June, 1))
	reading := newDailyHabit(t, s, "阅读", date(2024, time.June, 1))

	toggle(t, s, running.ID, date(2024, time.June, 10))
	toggle(t, s, reading.ID, date(2024, time.June, 10))
	toggle(t, s, reading.ID, date(2024, time.June, 11))

	engine := NewEngine(s)

	summary, err := engine.Summary(WindowWeek, date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if summary.TotalHabits != 2 {
		t.Fatalf("expected 2 habits tracked, got %d", summary.TotalHabits)
	}
	if summary.TotalCompletions != 3 {
		t.Fatalf("expected 3 completions, got %d", summary.TotalCompletions)
	}
	if summary.Habits[0].Name != "阅读" || summary.Habits[0].Count != 2 {
		t.Fatalf("expected 阅读 ranked first with 2, got %+v", summary.Habits[0])
	}
}

func TestCalendarMarksCompletedPeriods(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))
	toggle(t, s, habit.ID, date(2024, time.June, 11))

	engine := NewEngine(s)

	periods, err := engine.Calendar(habit.ID, WindowWeek, date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("Calendar returned error: %v", err)
	}
	if len(periods) != 7 {
		t.Fatalf("expected 7 days in week calendar, got %d", len(periods))
	}

	var completedDays int
	for _, period := range periods {
		if period.Completed {
			completedDays++
			if period.Period != "2024-06-11" {
				t.Fatalf("unexpected completed period %s", period.Period)
			}
		}
	}
	if completedDays != 1 {
		t.Fatalf("expected exactly 1 completed day, got %d", completedDays)
	}
}

func TestWeeklyProgressGroupsByISOWeek(t *testing.T) {
	s := store.NewStore()
	habit := newDailyHabit(t, s, "锻炼", date(2024, time.June, 1))

	// W24 两天，W25 一天
	toggle(t, s, habit.ID, date(2024, time.June, 11))
	toggle(t, s, habit.ID, date(2024, time.June, 13))
	toggle(t, s, habit.ID, date(2024, time.June, 18))

	engine := NewEngine(s)

	weeks, err := engine.WeeklyProgress(habit.ID, WindowMonth, date(2024, time.June, 20))
	if err != nil {
		t.Fatalf("WeeklyProgress returned error: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Week != "2024-W24" || weeks[0].Count != 2 {
		t.Fatalf("unexpected first week: %+v", weeks[0])
	}
	if weeks[1].Week != "2024-W25" || weeks[1].Count != 1 {
		t.Fatalf("unexpected second week: %+v", weeks[1])
	}
}

func TestStatsUnknownHabit(t *testing.T) {
	engine := NewEngine(store.NewStore())

	if _, err := engine.Stats("missing", WindowWeek, date(2024, time.June, 12)); err == nil {
		t.Fatal("expected error for unknown habit")
	}
}
