package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/Gokul-Webzenith/maestro-done/internal/auth"
	"github.com/Gokul-Webzenith/maestro-done/internal/cache"
	"github.com/Gokul-Webzenith/maestro-done/internal/config"
	"github.com/Gokul-Webzenith/maestro-done/internal/handlers"
	"github.com/Gokul-Webzenith/maestro-done/internal/repo"
	"github.com/Gokul-Webzenith/maestro-done/internal/service"
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

	sessionStore := auth.NewRedisStore(rdb, cfg.Auth.SessionTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)

	todoRepo := repo.NewPGTodoRepo(db)
	todoCache := cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	todoSvc := service.NewTodoService(todoRepo, todoCache, time.Local)

	MountAPI(r, cfg, sessionStore, userSvc, todoSvc)
}

// MountAPI wires the /api surface onto the engine. Split from Setup so tests
// can mount the same routes over in-memory stores.
func MountAPI(r *gin.Engine, cfg config.Config, sessions auth.Store, userSvc *service.UserService, todoSvc *service.TodoService) {
	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(sessions, userSvc,
		int(cfg.Auth.SessionTTL.Duration()/time.Second), cfg.Auth.CookieSecure)
	registerAuthRoutes(api, authHandler, sessions)

	protected := api.Group("", auth.RequireSession(sessions))
	todoHandler := handlers.NewTodoHandler(todoSvc)
	registerTodoRoutes(protected, todoHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Maestro API",
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
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

// registerTodoRoutes mounts the CRUD surface directly on the API base,
// matching the clients' generated paths: GET /api, POST /api, PUT /api/:id.
func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("", h.List)
	api.POST("", h.Create)
	api.PUT("/:id", h.Update)
	api.PATCH("/:id", h.Patch)
	api.DELETE("/:id", h.Delete)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, sessions auth.Store) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", auth.RequireSession(sessions), h.Me)
}
