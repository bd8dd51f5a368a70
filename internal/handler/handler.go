package handler

import (
	"blog_api/internal/auth"
	"blog_api/internal/config"
	"blog_api/internal/middleware"
	"blog_api/internal/post"
	"blog_api/internal/user"
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes.
func SetupHandler(db *sql.DB, conn *amqp091.Connection, redisClient *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	tokens := auth.NewTokenService(cfg.Auth.Secret)

	userRepo := user.NewUserRepository()
	postRepo := post.NewPostRepository()

	userService := user.NewUserService(userRepo, db, tokens, cfg.Auth.SignupTTL, cfg.Auth.SigninTTL)
	postService := post.NewPostService(postRepo, db, conn, redisClient)

	userController := user.NewUserController(userService)
	postController := post.NewPostController(postService)

	setupRoutes(r, userController, postController, tokens, &cfg.Routes)

	return r
}

// setupRoutes configures all application routes. The bearer-token gate is
// instantiated once and applied to every protected group.
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, postCtrl *post.PostController, tokens *auth.TokenService, routes *config.RoutesConfig) {
	requireAuth := middleware.RequireAuth(tokens)

	postGroup := r.Group("/post")
	{
		postGroup.GET("/", postCtrl.ListAll)
		postGroup.GET("/:id", postCtrl.GetByID)

		protected := postGroup.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/create", postCtrl.Create)
			protected.PUT("/update", postCtrl.Update)
			protected.DELETE("/delete", postCtrl.Delete)
		}
	}

	userGroup := r.Group("/user")
	{
		userGroup.POST("/signup", userCtrl.Signup)
		userGroup.POST("/signin", userCtrl.Signin)

		// Deployment config picks the delete shape: an unauthenticated
		// delete-by-body-id, or an authenticated self-delete.
		if routes.UserDeleteMode == config.UserDeleteAdmin {
			userGroup.DELETE("/delete", userCtrl.DeleteByID)
		}

		protected := userGroup.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/", userCtrl.List)
			protected.GET("/:id", userCtrl.GetByID)
			protected.PUT("/update", userCtrl.UpdateSelf)

			if routes.UserDeleteMode != config.UserDeleteAdmin {
				protected.DELETE("/delete", userCtrl.DeleteSelf)
			}
		}
	}
}
