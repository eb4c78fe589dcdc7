package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/handler"
	"gorm.io/gorm"
)

// Setup 配置 Gin 引擎和路由
func Setup(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()
	api := handler.NewAPI(gdb, cfg)

	// 上传的静态文件
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	auth := api.AuthRequired()
	authorOrAbove := api.RequireRole(db.RoleAuthor, db.RoleAdmin, db.RoleSuperAdmin)
	adminOrSuperAdmin := api.RequireRole(db.RoleAdmin, db.RoleSuperAdmin)
	superAdminOnly := api.RequireRole(db.RoleSuperAdmin)

	root := r.Group("/api")
	{
		root.POST("/auth/login", api.Login)

		categories := root.Group("/categories")
		{
			categories.GET("", api.ListCategories)
			categories.GET("/:slug", api.GetCategory)
			categories.POST("", auth, adminOrSuperAdmin, api.CreateCategory)
			categories.PUT("/:id", auth, adminOrSuperAdmin, api.UpdateCategory)
			categories.DELETE("/:id", auth, adminOrSuperAdmin, api.DeleteCategory)
		}

		posts := root.Group("/posts")
		{
			posts.GET("", api.ListPosts)
			posts.GET("/my-posts", auth, authorOrAbove, api.MyPosts)
			posts.GET("/:slug", api.GetPost)
			posts.GET("/:slug/download", api.DownloadPost)
			posts.POST("", auth, authorOrAbove, api.CreatePost)
			posts.PUT("/:id", auth, authorOrAbove, api.UpdatePost)
			posts.DELETE("/:id", auth, authorOrAbove, api.DeletePost)
		}

		comments := root.Group("/comments")
		{
			comments.POST("", api.SubmitComment)
			comments.GET("/post/:postId", api.ListPostComments)
			comments.GET("", auth, adminOrSuperAdmin, api.ListComments)
			comments.GET("/pending", auth, adminOrSuperAdmin, api.PendingComments)
			comments.GET("/stats", auth, adminOrSuperAdmin, api.CommentStats)
			comments.PUT("/:id/approve", auth, adminOrSuperAdmin, api.ModerateComment)
			comments.DELETE("/:id", auth, adminOrSuperAdmin, api.DeleteComment)
		}

		submissions := root.Group("/submissions")
		{
			submissions.POST("", api.SubmitStory)
			submissions.GET("", auth, adminOrSuperAdmin, api.ListSubmissions)
			submissions.GET("/:id", auth, adminOrSuperAdmin, api.GetSubmission)
			submissions.PUT("/:id/review", auth, adminOrSuperAdmin, api.ReviewSubmission)
			submissions.POST("/:id/convert-to-post", auth, adminOrSuperAdmin, api.ConvertSubmission)
		}

		community := root.Group("/community")
		{
			community.POST("/join", api.JoinCommunity)
			community.GET("/stats", auth, adminOrSuperAdmin, api.CommunityStats)
		}

		admin := root.Group("/admin", auth, adminOrSuperAdmin)
		{
			admin.GET("/dashboard", api.Dashboard)
			admin.GET("/posts", api.AdminListPosts)
			admin.GET("/members", api.ListMembers)
			admin.PUT("/members/:id", api.UpdateMemberStatus)
			admin.GET("/authors", api.ListAuthors)
			admin.POST("/users", api.CreateUser)
			admin.GET("/users", superAdminOnly, api.ListAdminUsers)
			admin.PUT("/users/:id/deactivate", superAdminOnly, api.DeactivateUser)
			admin.DELETE("/users/:id", superAdminOnly, api.DeleteUser)
		}

		profile := root.Group("/profile")
		{
			profile.GET("/:id", api.PublicProfile)
			profile.GET("/me/profile", auth, authorOrAbove, api.MyProfile)
			profile.PUT("/me", auth, authorOrAbove, api.UpdateMyProfile)
		}

		root.POST("/upload", auth, authorOrAbove, api.UploadImage)
	}

	return r
}
