package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/analytics"
	"github.com/habitlog/internal/store"
)

const (
	prefTrackDateKey = "track_date"
	prefWindowKey    = "analytics_window"
)

type preferencesPayload struct {
	TrackDate string `json:"track_date"`
	Window    string `json:"window"`
}

// GetPreferences 返回当前会话的打卡日期与统计窗口偏好
// 未设置时回退到今天和 week
func (a *API) GetPreferences(c *gin.Context) {
	session := sessions.Default(c)

	trackDate := time.Now().Format(store.DateFormat)
	if saved, ok := session.Get(prefTrackDateKey).(string); ok && saved != "" {
		trackDate = saved
	}

	window := string(analytics.WindowWeek)
	if saved, ok := session.Get(prefWindowKey).(string); ok && saved != "" {
		window = saved
	}

	c.JSON(http.StatusOK, gin.H{
		"track_date": trackDate,
		"window":     window,
	})
}

// UpdatePreferences 更新会话偏好，两个字段都可选
func (a *API) UpdatePreferences(c *gin.Context) {
	var payload preferencesPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	session := sessions.Default(c)

	if trimmed := strings.TrimSpace(payload.TrackDate); trimmed != "" {
		if _, err := time.ParseInLocation(store.DateFormat, trimmed, time.Local); err != nil {
			respondError(c, http.StatusBadRequest, "无效的打卡日期")
			return
		}
		session.Set(prefTrackDateKey, trimmed)
	}

	if trimmed := strings.TrimSpace(payload.Window); trimmed != "" {
		window, err := analytics.ParseWindow(trimmed)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的统计窗口")
			return
		}
		session.Set(prefWindowKey, string(window))
	}

	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "保存偏好失败")
		return
	}

	a.GetPreferences(c)
}
