package store

import "time"

// Cadence 表示习惯的打卡周期：每日或每周
type Cadence string

const (
	// CadenceDaily 每日习惯，按自然日打卡
	CadenceDaily Cadence = "daily"
	// CadenceWeekly 每周习惯，按 ISO 周打卡
	CadenceWeekly Cadence = "weekly"
)

// Habit 定义了习惯模型
// Name 在 Store 内唯一；Cadence 决定打卡记录落在哪种周期桶里
// CreatedAt 归一化到当天零点，用于 all_time 统计的起点
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Cadence     Cadence   `json:"cadence"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Activity 表示一次性活动，独立于 Habit，不参与周期打卡
type Activity struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}

// LogEntry 记录习惯在某个周期内的完成情况
// Period 是周期键：每日习惯为 2006-01-02，每周习惯为 ISO 周（如 2024-W10）
// Date 为每日习惯的打卡日期；每周习惯固定存该 ISO 周的周一
// 记录存在即视为完成，取消完成通过删除记录实现
type LogEntry struct {
	HabitID string    `json:"habit_id"`
	Period  string    `json:"period"`
	Date    time.Time `json:"date"`
}

// Snapshot 是 Store 的完整可序列化状态，由持久化协作方读写
type Snapshot struct {
	Habits     []Habit    `json:"habits"`
	Activities []Activity `json:"activities"`
	Logs       []LogEntry `json:"logs"`
}
