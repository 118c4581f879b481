package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/hr-records/internal/adapters/http/handler"
	"github.com/ogurasousui/hr-records/internal/adapters/http/middleware"
	"go.uber.org/zap"
)

// Options はルーター構築時の設定です。
type Options struct {
	// UploadsDir が空でなければ UploadsPrefix 配下で静的配信します。
	UploadsDir     string
	UploadsPrefix  string
	MaxUploadBytes int64
	RateLimiter    *middleware.RateLimiter
}

// Setup は gin エンジンを構築します。
func Setup(opts Options, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.UploadsDir != "" {
		prefix := opts.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		r.Static(prefix, opts.UploadsDir)
	}

	mutating := []gin.HandlerFunc{
		middleware.RateLimit(opts.RateLimiter),
		middleware.BodyLimit(opts.MaxUploadBytes),
	}

	employees := r.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.GET("/export.xlsx", h.Employee.Export)
		employees.GET("/:id", h.Employee.Get)
		employees.POST("", append(mutating, h.Employee.Create)...)
		employees.POST("/:id/edit", append(mutating, h.Employee.Update)...)
	}

	timesheets := r.Group("/timesheets")
	{
		timesheets.GET("", h.Timesheet.List)
		timesheets.GET("/calendar.ics", h.Timesheet.Calendar)
		timesheets.GET("/:id", h.Timesheet.Get)
		timesheets.POST("", append(mutating, h.Timesheet.Create)...)
		timesheets.POST("/delete", append(mutating, h.Timesheet.Delete)...)
		timesheets.POST("/:id/edit", append(mutating, h.Timesheet.Update)...)
	}

	return r
}
