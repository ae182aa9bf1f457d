package router

import (
	"feednana/internal/handler"
	"feednana/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)

		// Browsing, uploading, voting and commenting all work without an
		// account; a token only attaches ownership.
		open := api.Group("")
		open.Use(utils.OptionalAuthMiddleware())
		{
			open.POST("/upload/initiate", handler.InitiateUpload)
			open.POST("/upload/complete", handler.CompleteUpload)

			open.GET("/file/:id", handler.GetFile)
			open.GET("/file/:id/download", handler.DownloadFile)
			open.GET("/files", handler.ListFiles)
			open.GET("/album/:id", handler.GetAlbum)
			open.GET("/timeline/:id", handler.GetTimeline)

			open.POST("/comment", handler.CreateComment)
			open.GET("/comments", handler.ListComments)
			open.POST("/vote", handler.CastVote)
			open.POST("/report", handler.CreateReport)

			open.GET("/events", handler.StreamEvents)
		}

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())
		{
			auth.DELETE("/file/:id", handler.RemoveFile)
			auth.DELETE("/comment/:id", handler.RemoveComment)

			auth.POST("/timeline", handler.CreateTimeline)
			auth.GET("/timelines", handler.ListTimelines)
			auth.POST("/timeline/item", handler.AddTimelineItem)
			auth.DELETE("/timeline/item/:id", handler.RemoveTimelineItem)

			auth.GET("/reports", handler.ListReports)
			auth.POST("/report/resolve", handler.ResolveReport)
		}
	}
	return r
}
