package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/habitlog/internal/store"
)

// ErrInvalidWindow 当统计窗口无法解析或区间非法时返回
var ErrInvalidWindow = errors.New("invalid analytics window")

// Window 表示统计的时间窗口
type Window string

const (
	// WindowWeek 本 ISO 周（周一至周日）
	WindowWeek Window = "week"
	// WindowMonth 本自然月
	WindowMonth Window = "month"
	// WindowYear 本自然年
	WindowYear Window = "year"
	// WindowAllTime 不限时间
	WindowAllTime Window = "all_time"
)

// ParseWindow 归一化并校验窗口名称
func ParseWindow(raw string) (Window, error) {
	switch Window(strings.TrimSpace(strings.ToLower(raw))) {
	case WindowWeek:
		return WindowWeek, nil
	case WindowMonth:
		return WindowMonth, nil
	case WindowYear:
		return WindowYear, nil
	case WindowAllTime:
		return WindowAllTime, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidWindow, raw)
	}
}

// Range 是窗口解析出的具体日期区间
// Bounded 为 false 时表示 all_time，Start/End 无意义
type Range struct {
	Start   time.Time
	End     time.Time
	Bounded bool
}

// Contains 判断日期是否落在区间内（含两端）
func (r Range) Contains(date time.Time) bool {
	if !r.Bounded {
		return true
	}
	return !date.Before(r.Start) && !date.After(r.End)
}

// Resolve 以 now 为基准把窗口解析为具体区间
func (w Window) Resolve(now time.Time) (Range, error) {
	today := store.PeriodStart(store.CadenceDaily, now)

	var r Range
	switch w {
	case WindowWeek:
		start := store.PeriodStart(store.CadenceWeekly, today)
		r = Range{Start: start, End: start.AddDate(0, 0, 6), Bounded: true}
	case WindowMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		r = Range{Start: start, End: start.AddDate(0, 1, -1), Bounded: true}
	case WindowYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		r = Range{Start: start, End: time.Date(today.Year(), 12, 31, 0, 0, 0, 0, today.Location()), Bounded: true}
	case WindowAllTime:
		return Range{Bounded: false}, nil
	default:
		return Range{}, fmt.Errorf("%w: %s", ErrInvalidWindow, string(w))
	}

	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("%w: end before start", ErrInvalidWindow)
	}
	return r, nil
}
