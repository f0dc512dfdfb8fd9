package storage

import (
	"fmt"
	"time"

	"github.com/habitlog/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// habitRow 是 Habit 的数据库行
// Name 建唯一索引，和内存 Store 的唯一性约束保持一致
type habitRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex"`
	Cadence     string
	Description string
	CreatedAt   time.Time
}

func (habitRow) TableName() string {
	return "habits"
}

// activityRow 是一次性活动的数据库行
type activityRow struct {
	ID    string `gorm:"primaryKey"`
	Name  string
	Date  time.Time
	Notes string
}

func (activityRow) TableName() string {
	return "activities"
}

// logRow 是打卡记录的数据库行
// HabitID + Period 建唯一索引，保证每周期至多一条
type logRow struct {
	ID      uint   `gorm:"primaryKey"`
	HabitID string `gorm:"index;index:idx_habit_log_unique,unique"`
	Period  string `gorm:"index:idx_habit_log_unique,unique"`
	Date    time.Time
}

func (logRow) TableName() string {
	return "habit_logs"
}

// SQLiteBackend 把快照存入 SQLite，每次 Save 在单个事务里整体替换
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend 打开数据库并执行自动迁移，path 为空时回退到 habitlog.db
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		path = "habitlog.db"
	}
	if err := ensureParentDir(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, path, err)
	}

	if err := gdb.AutoMigrate(&habitRow{}, &activityRow{}, &logRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrPersistence, err)
	}

	return &SQLiteBackend{db: gdb}, nil
}

// Load 读取全部行并还原为快照
func (b *SQLiteBackend) Load() (*store.Snapshot, error) {
	var habits []habitRow
	if err := b.db.Order("created_at ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("%w: load habits: %v", ErrPersistence, err)
	}

	var activities []activityRow
	if err := b.db.Order("date DESC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("%w: load activities: %v", ErrPersistence, err)
	}

	var logs []logRow
	if err := b.db.Order("date ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%w: load habit logs: %v", ErrPersistence, err)
	}

	snapshot := &store.Snapshot{
		Habits:     make([]store.Habit, 0, len(habits)),
		Activities: make([]store.Activity, 0, len(activities)),
		Logs:       make([]store.LogEntry, 0, len(logs)),
	}

	for _, row := range habits {
		snapshot.Habits = append(snapshot.Habits, store.Habit{
			ID:          row.ID,
			Name:        row.Name,
			Cadence:     store.Cadence(row.Cadence),
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}
	for _, row := range activities {
		snapshot.Activities = append(snapshot.Activities, store.Activity{
			ID:    row.ID,
			Name:  row.Name,
			Date:  row.Date,
			Notes: row.Notes,
		})
	}
	for _, row := range logs {
		snapshot.Logs = append(snapshot.Logs, store.LogEntry{
			HabitID: row.HabitID,
			Period:  row.Period,
			Date:    row.Date,
		})
	}

	return snapshot, nil
}

// Save 在一个事务里清空并重写全部表
func (b *SQLiteBackend) Save(snapshot *store.Snapshot) error {
	if snapshot == nil {
		snapshot = &store.Snapshot{}
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&logRow{}).Error; err != nil {
			return err
		}
		if err := global.Delete(&activityRow{}).Error; err != nil {
			return err
		}
		if err := global.Delete(&habitRow{}).Error; err != nil {
			return err
		}

		habits := make([]habitRow, 0, len(snapshot.Habits))
		for _, habit := range snapshot.Habits {
			habits = append(habits, habitRow{
				ID:          habit.ID,
				Name:        habit.Name,
				Cadence:     string(habit.Cadence),
				Description: habit.Description,
				CreatedAt:   habit.CreatedAt,
			})
		}
		if len(habits) > 0 {
			if err := tx.Create(&habits).Error; err != nil {
				return err
			}
		}

		activities := make([]activityRow, 0, len(snapshot.Activities))
		for _, activity := range snapshot.Activities {
			activities = append(activities, activityRow{
				ID:    activity.ID,
				Name:  activity.Name,
				Date:  activity.Date,
				Notes: activity.Notes,
			})
		}
		if len(activities) > 0 {
			if err := tx.Create(&activities).Error; err != nil {
				return err
			}
		}

		logs := make([]logRow, 0, len(snapshot.Logs))
		for _, entry := range snapshot.Logs {
			logs = append(logs, logRow{
				HabitID: entry.HabitID,
				Period:  entry.Period,
				Date:    entry.Date,
			})
		}
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save snapshot: %v", ErrPersistence, err)
	}

	return nil
}
