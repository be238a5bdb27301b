package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/handlers"
	"fieldops/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	salesHandler *handlers.SalesHandler,
	attendanceHandler *handlers.AttendanceHandler,
	leaveHandler *handlers.LeaveHandler,
	chatHandler *handlers.ChatHandler,
	reportsHandler *handlers.ReportsHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.ReadOnlyGuard())

	r.POST("/logout", authHandler.Logout)
	r.GET("/me", userHandler.Me)
	r.GET("/managers", userHandler.ListManagers)

	// STAFF (HR/Admin ведут справочник, остальные читают)
	staff := r.Group("/staff")
	{
		staff.GET("/", userHandler.List)
		staff.GET("/count", userHandler.Count)
		staff.GET("/:id", userHandler.Get)

		admin := staff.Group("", middleware.RequireRoles(authz.RoleHR, authz.RoleAdmin))
		{
			admin.POST("/", userHandler.Create)
			admin.PUT("/:id", userHandler.Update)
			admin.DELETE("/:id", userHandler.Delete)
		}
	}

	// CLIENTS (торговые точки)
	clients := r.Group("/clients")
	{
		clients.GET("/", clientHandler.List)
		clients.GET("/:id", clientHandler.Get)
		clients.POST("/", clientHandler.Create)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", middleware.RequireRoles(authz.RoleManager, authz.RoleAdmin), clientHandler.Delete)
	}

	// SALES
	sales := r.Group("/sales")
	{
		sales.POST("/", salesHandler.CreateSale)
		sales.GET("/", salesHandler.ListSales)
		sales.GET("/performance", salesHandler.Performance)
		sales.GET("/:id", salesHandler.GetSale)
		sales.PUT("/:id", salesHandler.UpdateSale)
		sales.DELETE("/:id", middleware.RequireRoles(authz.RoleManager, authz.RoleAdmin), salesHandler.DeleteSale)
	}

	// TARGETS (планы выставляет менеджмент)
	targets := r.Group("/targets")
	{
		targets.GET("/", salesHandler.ListTargets)

		manage := targets.Group("", middleware.RequireRoles(authz.RoleManager, authz.RoleAdmin))
		{
			manage.POST("/", salesHandler.CreateTarget)
			manage.PUT("/:id", salesHandler.UpdateTarget)
			manage.DELETE("/:id", salesHandler.DeleteTarget)
		}
	}

	// ATTENDANCE
	attendance := r.Group("/attendance")
	{
		attendance.POST("/check-in", attendanceHandler.CheckIn)
		attendance.POST("/check-out", attendanceHandler.CheckOut)
		attendance.GET("/logins", attendanceHandler.ListLogins)
	}

	// JOURNEY PLANS
	journeys := r.Group("/journey-plans")
	{
		journeys.POST("/", attendanceHandler.CreateJourney)
		journeys.GET("/", attendanceHandler.ListJourneys)
		journeys.GET("/:id", attendanceHandler.GetJourney)
		journeys.POST("/:id/status", attendanceHandler.ChangeJourneyStatus)
		journeys.DELETE("/:id", attendanceHandler.DeleteJourney)
	}

	// LEAVE
	leave := r.Group("/leave-requests")
	{
		leave.POST("/", leaveHandler.Create)
		leave.GET("/", leaveHandler.List)
		leave.GET("/:id", leaveHandler.Get)
		leave.POST("/:id/decide",
			middleware.RequireRoles(authz.RoleManager, authz.RoleHR, authz.RoleAdmin),
			leaveHandler.Decide)
		leave.POST("/:id/cancel", leaveHandler.Cancel)
	}

	// CHAT
	chats := r.Group("/chats")
	{
		chats.GET("/", chatHandler.ListRooms)
		chats.POST("/group", chatHandler.CreateGroup)
		chats.POST("/private", chatHandler.CreatePrivate)
		chats.DELETE("/:id", chatHandler.DeleteRoom)
		chats.GET("/:id/messages", chatHandler.ListMessages)
		chats.POST("/:id/messages", chatHandler.SendMessage)
		chats.PUT("/:id/messages/:messageId", chatHandler.EditMessage)
		chats.DELETE("/:id/messages/:messageId", chatHandler.DeleteMessage)
		chats.POST("/:id/messages/:messageId/read", chatHandler.MarkMessageRead)
		chats.POST("/:id/read", chatHandler.MarkRoomRead)
		chats.GET("/unread-counts", chatHandler.UnreadCounts)
		chats.GET("/ws", chatHandler.Stream)
	}

	// REPORTS (руководство и аудит)
	reports := r.Group("/reports",
		middleware.RequireRoles(authz.RoleManager, authz.RoleHR, authz.RoleAdmin, authz.RoleAudit),
	)
	{
		reports.GET("/sales.csv", reportsHandler.SalesCSV)
		reports.GET("/attendance.csv", reportsHandler.AttendanceCSV)
		reports.GET("/leave.csv", reportsHandler.LeaveCSV)
		reports.GET("/performance.csv", reportsHandler.PerformanceCSV)
		reports.GET("/performance.pdf", reportsHandler.PerformancePDF)
	}

	return r
}
