package store

import (
	"fmt"
	"regexp"
	"time"
)

// DateFormat 是所有日期序列化使用的布局
const DateFormat = "2006-01-02"

var weekPeriodPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf 返回 t 所在 ISO 周的周一（零点）
func mondayOf(t time.Time) time.Time {
	t = normalizeToDate(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -weekday+1)
}

// isoWeekKey 返回 ISO (年, 周) 键，统一使用 ISO 周编号，避免 %U 式的本地化周
func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// PeriodKey 返回 date 在给定周期下的周期键
func PeriodKey(cadence Cadence, date time.Time) string {
	if cadence == CadenceWeekly {
		return isoWeekKey(date)
	}
	return normalizeToDate(date).Format(DateFormat)
}

// PeriodStart 返回周期的起始日：每日习惯为当天零点，每周习惯为 ISO 周的周一
func PeriodStart(cadence Cadence, date time.Time) time.Time {
	if cadence == CadenceWeekly {
		return mondayOf(date)
	}
	return normalizeToDate(date)
}

// periodDate 把周期键还原为周期起始日：每日为当天，每周为该 ISO 周的周一
// Restore 用它重建 Date 字段，快照里存的日期不可信
func periodDate(cadence Cadence, period string) (time.Time, bool) {
	if cadence == CadenceWeekly {
		var year, week int
		if _, err := fmt.Sscanf(period, "%d-W%d", &year, &week); err != nil {
			return time.Time{}, false
		}
		// 1 月 4 日永远落在该年的 W01
		jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
		return mondayOf(jan4).AddDate(0, 0, (week-1)*7), true
	}

	t, err := time.ParseInLocation(DateFormat, period, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// validPeriod 校验周期键与周期类型是否匹配，Restore 时用于丢弃脏数据
func validPeriod(cadence Cadence, period string) bool {
	if cadence == CadenceWeekly {
		return weekPeriodPattern.MatchString(period)
	}
	_, err := time.Parse(DateFormat, period)
	return err == nil
}
