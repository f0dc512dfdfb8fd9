package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，偏好设置存在 cookie 会话里
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("habitlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/habits", api.ListHabits)
		apiGroup.POST("/habits", api.CreateHabit)
		apiGroup.GET("/habits/:id", api.GetHabit)
		apiGroup.DELETE("/habits/:id", api.DeleteHabit)
		apiGroup.POST("/habits/:id/toggle", api.ToggleHabit)
		apiGroup.GET("/habits/:id/completed", api.GetHabitCompleted)

		apiGroup.GET("/activities", api.ListActivities)
		apiGroup.POST("/activities", api.CreateActivity)
		apiGroup.DELETE("/activities/:id", api.DeleteActivity)

		apiGroup.GET("/analytics/summary", api.GetSummary)
		apiGroup.GET("/analytics/habits/:id", api.GetHabitStats)
		apiGroup.GET("/analytics/habits/:id/calendar", api.GetHabitCalendar)
		apiGroup.GET("/analytics/habits/:id/weekly", api.GetHabitWeeklyProgress)

		apiGroup.GET("/export/habits", api.ExportHabits)
		apiGroup.GET("/export/logs", api.ExportLogs)
		apiGroup.DELETE("/data", api.ClearData)

		apiGroup.GET("/preferences", api.GetPreferences)
		apiGroup.PUT("/preferences", api.UpdatePreferences)
	}

	return r
}
