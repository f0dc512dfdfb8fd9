package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/store"
)

// ExportHabits 以 JSON 附件形式导出习惯和活动定义
func (a *API) ExportHabits(c *gin.Context) {
	snapshot := a.tracker.Snapshot()

	c.Header("Content-Disposition", `attachment; filename="habits.json"`)
	c.JSON(http.StatusOK, gin.H{
		"habits":     snapshot.Habits,
		"activities": snapshot.Activities,
	})
}

// ExportLogs 以 JSON 附件形式导出全部打卡记录
func (a *API) ExportLogs(c *gin.Context) {
	snapshot := a.tracker.Snapshot()

	logs := make([]gin.H, 0, len(snapshot.Logs))
	for _, entry := range snapshot.Logs {
		logs = append(logs, gin.H{
			"habit_id": entry.HabitID,
			"period":   entry.Period,
			"date":     entry.Date.Format(store.DateFormat),
		})
	}

	c.Header("Content-Disposition", `attachment; filename="logs.json"`)
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ClearData 清空全部数据
func (a *API) ClearData(c *gin.Context) {
	err := a.tracker.ClearAll()
	if err != nil && !isSaveWarning(err) {
		handleStoreError(c, err)
		return
	}

	response := gin.H{"cleared": true}
	if isSaveWarning(err) {
		response["warning"] = saveWarningMessage
	}

	c.JSON(http.StatusOK, response)
}
