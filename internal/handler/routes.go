package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted by RegisterRoutes.
type Handlers struct {
	Subjects  *SubjectHandler
	Semesters *SemesterHandler
	Settings  *SettingsHandler
	Export    *ExportHandler
}

// RegisterRoutes mounts the API under prefix.
func RegisterRoutes(r gin.IRouter, prefix string, h Handlers) {
	api := r.Group(prefix)

	subjects := api.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", h.Subjects.Create)
	subjects.DELETE("", h.Subjects.Reset)
	subjects.GET("/:id", h.Subjects.Get)
	subjects.PUT("/:id", h.Subjects.Update)
	subjects.DELETE("/:id", h.Subjects.Delete)
	api.GET("/summary", h.Subjects.Summary)

	semesters := api.Group("/semesters")
	semesters.GET("", h.Semesters.List)
	semesters.POST("", h.Semesters.Archive)
	semesters.GET("/school-years", h.Semesters.SchoolYears)
	semesters.GET("/:id", h.Semesters.Get)
	semesters.PUT("/:id", h.Semesters.Rename)
	semesters.DELETE("/:id", h.Semesters.Delete)

	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings", h.Settings.Update)

	api.GET("/export/subjects", h.Subjects.Export)
	api.POST("/import/subjects", h.Subjects.Import)
	api.GET("/export/transcript", h.Export.Transcript)
}
