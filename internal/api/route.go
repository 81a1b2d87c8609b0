package api

import (
	"Petrel/internal/api/middleware"
	"Petrel/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		noteGroup := apiGroup.Group("/notes")
		{
			authOptGroup := noteGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:note_id", group.NoteHandler.Get)
				authOptGroup.GET("/:note_id/renotes", group.NoteHandler.Renotes)
			}

			authGroup := noteGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.NoteHandler.Create)
				authGroup.PATCH("/:note_id", group.NoteHandler.Edit)
				authGroup.DELETE("/:note_id", group.NoteHandler.Delete)
			}
		}

		timelineGroup := apiGroup.Group("/timelines")
		{
			authOptGroup := timelineGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/local", group.TimelineHandler.Local)
				authOptGroup.GET("/global", group.TimelineHandler.Global)
				authOptGroup.GET("/user/:user_id", group.TimelineHandler.User)
			}

			authGroup := timelineGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/home", group.TimelineHandler.Home)
			}
		}

		searchGroup := apiGroup.Group("/search")
		searchGroup.Use(middleware.AuthOptionalMiddleware())
		{
			searchGroup.GET("/notes", group.TimelineHandler.Search)
		}

		apiGroup.GET("/streaming", group.StreamHandler.Connect)
	}

	return r
}
