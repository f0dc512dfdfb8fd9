package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/store"
)

type activityPayload struct {
	Name  string `json:"name"`
	Date  string `json:"date"` // 2006-01-02，缺省为今天
	Notes string `json:"notes"`
}

// ListActivities 返回一次性活动列表
func (a *API) ListActivities(c *gin.Context) {
	activities := a.tracker.ListActivities()

	items := make([]gin.H, 0, len(activities))
	for _, activity := range activities {
		items = append(items, activityToPayload(activity))
	}

	c.JSON(http.StatusOK, gin.H{"activities": items})
}

// CreateActivity 记录一次性活动
func (a *API) CreateActivity(c *gin.Context) {
	var payload activityPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	date, ok := parseDate(payload.Date)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的活动日期")
		return
	}

	activity, err := a.tracker.AddActivity(payload.Name, date, payload.Notes)
	if err != nil && !isSaveWarning(err) {
		handleStoreError(c, err)
		return
	}

	response := gin.H{"activity": activityToPayload(*activity)}
	if isSaveWarning(err) {
		response["warning"] = saveWarningMessage
	}

	c.JSON(http.StatusOK, response)
}

// DeleteActivity 删除一次性活动
func (a *API) DeleteActivity(c *gin.Context) {
	err := a.tracker.DeleteActivity(c.Param("id"))
	if err != nil && !isSaveWarning(err) {
		handleStoreError(c, err)
		return
	}

	response := gin.H{"deleted": true}
	if isSaveWarning(err) {
		response["warning"] = saveWarningMessage
	}

	c.JSON(http.StatusOK, response)
}

func activityToPayload(activity store.Activity) gin.H {
	return gin.H{
		"id":         activity.ID,
		"name":       activity.Name,
		"date":       activity.Date.Format(store.DateFormat),
		"notes":      activity.Notes,
		"notes_html": renderMarkdown(activity.Notes),
	}
}
