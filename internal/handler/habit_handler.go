package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/store"
)

type habitPayload struct {
	Name        string `json:"name"`
	Cadence     string `json:"cadence"`
	Description string `json:"description"`
}

type togglePayload struct {
	Date string `json:"date"` // 2006-01-02，缺省为今天
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	habits := a.tracker.ListHabits()

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}

	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// GetHabit 返回单个习惯详情
func (a *API) GetHabit(c *gin.Context) {
	habit, err := a.tracker.GetHabit(c.Param("id"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.tracker.AddHabit(payload.Name, payload.Cadence, payload.Description)
	if err != nil && !isSaveWarning(err) {
		handleStoreError(c, err)
		return
	}

	response := gin.H{"habit": habitToPayload(*habit)}
	if isSaveWarning(err) {
		response["warning"] = saveWarningMessage
	}

	c.JSON(http.StatusOK, response)
}

// DeleteHabit 删除习惯并级联删除其打卡记录
func (a *API) DeleteHabit(c *gin.Context) {
	err := a.tracker.DeleteHabit(c.Param("id"))
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

// ToggleHabit 翻转习惯在指定日期所在周期的完成状态
func (a *API) ToggleHabit(c *gin.Context) {
	var payload togglePayload
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	date, ok := parseDate(payload.Date)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的打卡日期")
		return
	}

	completed, err := a.tracker.ToggleCompletion(c.Param("id"), date)
	if err != nil && !isSaveWarning(err) {
		handleStoreError(c, err)
		return
	}

	response := gin.H{"completed": completed, "date": date.Format(store.DateFormat)}
	if isSaveWarning(err) {
		response["warning"] = saveWarningMessage
	}

	c.JSON(http.StatusOK, response)
}

// GetHabitCompleted 查询习惯在指定日期所在周期是否完成
func (a *API) GetHabitCompleted(c *gin.Context) {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的查询日期")
		return
	}

	completed, err := a.tracker.IsCompleted(c.Param("id"), date)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": completed, "date": date.Format(store.DateFormat)})
}

func habitToPayload(habit store.Habit) gin.H {
	return gin.H{
		"id":               habit.ID,
		"name":             habit.Name,
		"cadence":          string(habit.Cadence),
		"description":      habit.Description,
		"description_html": renderMarkdown(habit.Description),
		"created_at":       habit.CreatedAt.Format(store.DateFormat),
	}
}
