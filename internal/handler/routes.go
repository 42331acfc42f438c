package handler

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, schedule *ScheduleHandler, calendar *CalendarHandler) {
	v1 := r.Group("/api/v1")

	v1.POST("/schedule/optimize", schedule.HandleOptimize)

	cal := v1.Group("/calendar")
	cal.POST("/events", calendar.HandleEvents)
	cal.POST("/ics", calendar.HandleICS)
	cal.POST("/sync", calendar.HandleSync)
	cal.POST("/sync/deferred", calendar.HandleDeferredSync)
}
