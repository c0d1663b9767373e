package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sociumlab/socium/config"
	"github.com/sociumlab/socium/controllers"
	"github.com/sociumlab/socium/middleware"
	"github.com/sociumlab/socium/utils"
)

// SetupRouter wires middlewares and the API route tree onto a fresh engine.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// File-based zap access log instead of gin's console logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	RegisterAPI(r, db)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

// RegisterAPI mounts all JSON endpoints under /api/v1. Every /users/* route
// binds its path segment as :user; follow and unfollow read it as a numeric
// id, the rest resolve it as a username.
func RegisterAPI(r *gin.Engine, db *gorm.DB) {
	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	userController := controllers.NewUserController(db)
	directController := controllers.NewDirectController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	// Public endpoints; a bearer token, when present, personalises liked and
	// is_followed flags and makes /me resolve.
	public := api.Group("")
	public.Use(middleware.AuthOptional())
	public.GET("/explore", feedController.Explore)
	public.GET("/me", authController.Me)
	public.GET("/posts/:id/:slug", postController.GetPost)
	public.GET("/users/:user", userController.Profile)
	public.GET("/users/:user/posts", postController.ListUserPosts)
	public.GET("/users/:user/relations", userController.Relations)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/home", feedController.Home)

	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/like", postController.ToggleLike)

	protected.POST("/posts/:id/:slug/comments", commentController.CreateComment)
	protected.POST("/posts/:id/comments/:commentId/reply", commentController.CreateReply)
	protected.DELETE("/comments/:id", commentController.DeleteComment)

	protected.POST("/users/:user/follow", userController.Follow)
	protected.POST("/users/:user/unfollow", userController.Unfollow)
	protected.PUT("/users/:user/edit", userController.EditProfile)
	protected.POST("/users/me/picture", userController.UploadPicture)

	protected.GET("/messages", directController.ListDirects)
	protected.GET("/messages/:id", directController.GetDirect)
	protected.POST("/users/:user/message", directController.SendDirect)
}
