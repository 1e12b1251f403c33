package router

import (
	"commune/internal/handler"
	"commune/internal/middleware"
	"commune/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Deps struct {
	Logger zerolog.Logger
	Tokens *pkg.TokenManager
	Actors middleware.ActorSource

	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Community *handler.CommunityHandler
	Post      *handler.PostHandler
	Comment   *handler.CommentHandler
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestContext(d.Logger))

	auth := middleware.AuthRequired(d.Tokens, d.Actors)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.GET("/me", auth, d.Auth.Me)
	}

	userGroup := r.Group("/api/users")
	{
		userGroup.GET("", d.User.List)
		userGroup.GET("/me/subscriptions", auth, d.User.MySubscriptions)
		userGroup.GET("/:username", d.User.GetByUsername)
		userGroup.GET("/:username/subscriptions", d.User.Subscriptions)
		userGroup.POST("", auth, d.User.Create)
		userGroup.PUT("/:id", auth, d.User.Update)
		userGroup.DELETE("/:id", auth, d.User.Delete)
	}

	communityGroup := r.Group("/api/communities")
	{
		communityGroup.GET("", d.Community.List)
		communityGroup.GET("/:id", d.Community.Get)
		communityGroup.GET("/:id/followers", d.Community.ListFollowers)
		communityGroup.GET("/:id/posts", d.Community.ListPosts)
		communityGroup.POST("", auth, d.Community.Create)
		communityGroup.PUT("/:id", auth, d.Community.Update)
		communityGroup.DELETE("/:id", auth, d.Community.Delete)
		communityGroup.POST("/:id/followers", auth, d.Community.Follow)
		communityGroup.DELETE("/:id/followers", auth, d.Community.Unfollow)
	}

	postGroup := r.Group("/api/posts")
	{
		postGroup.GET("", d.Post.List)
		postGroup.GET("/:id", d.Post.Get)
		postGroup.GET("/:id/comments", d.Comment.ListByPost)
		postGroup.POST("", auth, d.Post.Create)
		postGroup.PUT("/:id", auth, d.Post.Update)
		postGroup.DELETE("/:id", auth, d.Post.Delete)
		postGroup.POST("/:id/comments", auth, d.Comment.Create)
	}

	commentGroup := r.Group("/api/comments")
	{
		commentGroup.PUT("/:id", auth, d.Comment.Update)
		commentGroup.DELETE("/:id", auth, d.Comment.Delete)
	}

	return r
}
