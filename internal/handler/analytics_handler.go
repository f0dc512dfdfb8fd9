package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/analytics"
	"github.com/habitlog/internal/store"
)

// GetSummary 返回窗口内的整体统计和习惯完成排名
func (a *API) GetSummary(c *gin.Context) {
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}

	summary, err := a.tracker.Summary(window, time.Now())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	habits := make([]gin.H, 0, len(summary.Habits))
	for _, item := range summary.Habits {
		habits = append(habits, gin.H{
			"habit_id": item.HabitID,
			"name":     item.Name,
			"count":    item.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"window":            string(summary.Window),
		"total_habits":      summary.TotalHabits,
		"total_completions": summary.TotalCompletions,
		"habits":            habits,
	})
}

// GetHabitStats 返回单个习惯的完成次数、完成率与连胜
func (a *API) GetHabitStats(c *gin.Context) {
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}

	stats, err := a.tracker.Stats(c.Param("id"), window, time.Now())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": serializeHabitStats(stats)})
}

// GetHabitCalendar 返回窗口内每个周期的完成状态
func (a *API) GetHabitCalendar(c *gin.Context) {
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}

	periods, err := a.tracker.Calendar(c.Param("id"), window, time.Now())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	items := make([]gin.H, 0, len(periods))
	for _, period := range periods {
		items = append(items, gin.H{
			"period":    period.Period,
			"date":      period.Date.Format(store.DateFormat),
			"completed": period.Completed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"window": string(window), "periods": items})
}

// GetHabitWeeklyProgress 返回按 ISO 周聚合的完成次数
func (a *API) GetHabitWeeklyProgress(c *gin.Context) {
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}

	weeks, err := a.tracker.WeeklyProgress(c.Param("id"), window, time.Now())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	items := make([]gin.H, 0, len(weeks))
	for _, week := range weeks {
		items = append(items, gin.H{"week": week.Week, "count": week.Count})
	}

	c.JSON(http.StatusOK, gin.H{"window": string(window), "weeks": items})
}

func serializeHabitStats(stats *analytics.HabitStats) gin.H {
	return gin.H{
		"habit_id":        stats.HabitID,
		"window":          string(stats.Window),
		"completed_count": stats.CompletedCount,
		"consistency_pct": stats.ConsistencyPct,
		"current_streak":  stats.CurrentStreak,
		"longest_streak":  stats.LongestStreak,
	}
}
