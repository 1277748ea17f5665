package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"logify/internal/adapter/notification"
	"logify/internal/api/handler"
	"logify/internal/api/middleware"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/repository"
	"logify/internal/service"
	"logify/pkg/utils"
)

// Setup 设置路由
func Setup(cfg *config.Config, db *gorm.DB, mailer notification.Mailer) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	if cfg.Server.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	teamMemberRepo := repository.NewTeamMemberRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	authz = service.NewAuthorizationService(teamMemberRepo)

	// 初始化Service
	authService := service.NewAuthService(&cfg.Auth, userRepo, authz)
	teamMemberService := service.NewTeamMemberService(db, teamMemberRepo, userRepo, mailer, &cfg.Mail)
	projectService := service.NewProjectService(db, projectRepo, teamMemberRepo)
	taskService := service.NewTaskService(db, taskRepo, projectRepo, teamMemberRepo)
	timesheetService := service.NewTimesheetService(db, timesheetRepo, teamMemberRepo, projectRepo, taskRepo, userRepo, mailer, &cfg.Mail)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService, teamMemberService, &cfg.Auth)
	teamMemberHandler := handler.NewTeamMemberHandler(teamMemberService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	timesheetHandler := handler.NewTimesheetHandler(timesheetService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	api := r.Group("/api")
	{
		// 认证相关(无需token)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// 需要认证的路由
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(authz, authService, &cfg.Auth))
		{
			authed.GET("/auth/me", authHandler.Me)
			authed.POST("/auth/team", authHandler.InviteMember) // 仅管理员，非管理员返回401

			// 项目管理
			projects := authed.Group("/projects")
			{
				projects.GET("", RequirePermission(auth.PermProjectView), projectHandler.List)
				projects.POST("", RequirePermission(auth.PermProjectCreate), projectHandler.Create)
				projects.GET("/:id", RequirePermission(auth.PermProjectView), projectHandler.Get)
				projects.PATCH("/:id", RequirePermission(auth.PermProjectUpdate), projectHandler.Update)
				projects.DELETE("/:id", RequirePermission(auth.PermProjectDelete), projectHandler.Delete)
			}

			// 任务管理
			tasks := authed.Group("/tasks")
			{
				tasks.GET("", RequirePermission(auth.PermTaskView), taskHandler.List)
				tasks.POST("", RequirePermission(auth.PermTaskCreate), taskHandler.Create)
				tasks.GET("/:id", RequirePermission(auth.PermTaskView), taskHandler.Get)
				tasks.PATCH("/:id", RequirePermission(auth.PermTaskUpdate), taskHandler.Update)
				tasks.DELETE("/:id", RequirePermission(auth.PermTaskDelete), taskHandler.Delete)
			}

			// 团队成员
			members := authed.Group("/team-members")
			{
				members.GET("", RequirePermission(auth.PermTeamView), teamMemberHandler.ListMembers)
				members.POST("", teamMemberHandler.AddMember) // 仅管理员，非管理员返回401
				members.GET("/:id", RequirePermission(auth.PermTeamView), teamMemberHandler.GetMember)
				members.PATCH("/:id", RequirePermission(auth.PermTeamUpdate), teamMemberHandler.UpdateMember)
				members.DELETE("/:id", RequirePermission(auth.PermTeamDelete), teamMemberHandler.DeleteMember)
			}

			// 工时
			timesheet := authed.Group("/timesheet")
			{
				timesheet.GET("", RequirePermission(auth.PermTimesheetView), timesheetHandler.List)
				timesheet.POST("", RequirePermission(auth.PermTimesheetCreate), timesheetHandler.Create)
				timesheet.GET("/weekly", RequirePermission(auth.PermTimesheetView), timesheetHandler.Weekly)
				timesheet.PATCH("/:id", RequirePermission(auth.PermTimesheetUpdate), timesheetHandler.Update)
				timesheet.DELETE("/:id", RequirePermission(auth.PermTimesheetDelete), timesheetHandler.Delete)
			}
			authed.POST("/sendData", RequirePermission(auth.PermTimesheetSubmit), timesheetHandler.SendData)

			// 看板
			authed.GET("/dashboard", RequirePermission(auth.PermDashboardView), dashboardHandler.Snapshot)
		}
	}

	return r
}
