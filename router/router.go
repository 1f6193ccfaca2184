package router

import (
	"net/http"
	"time"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/middleware"
	"fintrack/observability"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// 登录限流：每个 IP 每分钟 5 次
const (
	loginAttempts = 5
	loginWindow   = time.Minute
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *service.Services, metrics *observability.Metrics, log *zap.Logger) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	// CORS 中间件
	r.Use(CORSMiddleware())

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := api.NewAuthHandler(cfg, svc.Auth, svc.Sessions)
	categoryHandler := api.NewCategoryHandler(svc.Categories)
	transactionHandler := api.NewTransactionHandler(svc.Transactions)
	profileHandler := api.NewProfileHandler(svc.Profiles)
	dashboardHandler := api.NewDashboardHandler(svc.Dashboard)
	reportHandler := api.NewReportHandler(svc.Reports)

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(loginAttempts, loginWindow), authHandler.Login)
			auth.GET("/session", middleware.OptionalJWT(), authHandler.Session)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(), middleware.SessionContext(svc.Sessions, log))
		{
			authorized.POST("/auth/logout", authHandler.Logout)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", transactionHandler.List)
				transactions.POST("", transactionHandler.Create)
				transactions.GET("/export", transactionHandler.Export)
				transactions.POST("/import", transactionHandler.Import)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			authorized.GET("/profile", profileHandler.Get)
			authorized.PUT("/profile", profileHandler.Update)
			authorized.GET("/dashboard", dashboardHandler.Get)

			reports := authorized.Group("/reports")
			{
				reports.GET("", reportHandler.Get)
				reports.GET("/excel", reportHandler.Excel)
				reports.GET("/csv", reportHandler.CSV)
				reports.GET("/pdf", reportHandler.PDF)
				reports.POST("/email", reportHandler.Email)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": svc.Sessions.Active(),
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
