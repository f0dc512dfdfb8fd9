package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/analytics"
	"github.com/habitlog/internal/storage"
	"github.com/habitlog/internal/store"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseDate 解析 2006-01-02 格式的日期，空串回退到今天
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		today := time.Now()
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()), true
	}

	t, err := time.ParseInLocation(store.DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseWindowQuery 解析 window 查询参数，缺省为 week
func parseWindowQuery(c *gin.Context) (analytics.Window, bool) {
	window, err := analytics.ParseWindow(c.DefaultQuery("window", string(analytics.WindowWeek)))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的统计窗口")
		return "", false
	}
	return window, true
}

// isSaveWarning 判断错误是否是“变更已生效但持久化失败”的警告
func isSaveWarning(err error) bool {
	return err != nil && errors.Is(err, storage.ErrPersistence)
}

const saveWarningMessage = "数据已更新，但写入存储失败"

func handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		respondError(c, http.StatusConflict, "习惯名称已存在")
	case errors.Is(err, store.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, store.ErrActivityNotFound):
		respondError(c, http.StatusNotFound, "活动不存在")
	case errors.Is(err, store.ErrInvalidCadence):
		respondError(c, http.StatusBadRequest, "无效的习惯周期")
	case errors.Is(err, analytics.ErrInvalidWindow):
		respondError(c, http.StatusBadRequest, "无效的统计窗口")
	case errors.Is(err, storage.ErrPersistence):
		respondError(c, http.StatusInternalServerError, "存储读写失败")
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
