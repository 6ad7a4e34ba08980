package app

import (
	"taskapi/internal/auth"
	"taskapi/internal/cache"
	"taskapi/internal/config"
	"taskapi/internal/handlers"
	"taskapi/internal/ratelimit"
	"taskapi/internal/repo"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Max > 0 {
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window.Duration())
	}
	api := r.Group("/api", ratelimit.Middleware(limiter))

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	registerAuthRoutes(api, authHandler, tokens)

	protected := api.Group("", auth.RequireToken(tokens))
	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(protected, taskHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"message": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.PATCH("/tasks/:id", h.UpdateStatus)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, tokens *auth.TokenService) {
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/verify", auth.RequireToken(tokens), h.Verify)
}
