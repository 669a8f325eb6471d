package rest

import "github.com/gin-gonic/gin"

// NewApi registers the JSON API.
func NewApi(router *gin.Engine, posts *PostsHandler, auth *AuthHandler) {
	postsV1 := router.Group("/api/v1/posts")
	{
		postsV1.GET("", posts.List)
		postsV1.POST("", posts.Create)
		postsV1.GET("/:postId", posts.Get)
		postsV1.PUT("/:postId", posts.Update)
		postsV1.DELETE("/:postId", posts.Delete)
	}

	authV1 := router.Group("/api/v1/auth")
	{
		authV1.POST("/login", auth.Login)
		authV1.POST("/logout", auth.Logout)
		authV1.GET("/verify", auth.Verify)
	}
}
