package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"pethost/internal/infra/config"
	"pethost/internal/infra/obs"
)

type HostHTTP interface {
	Create(c *gin.Context)
	Search(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddPhoto(c *gin.Context)
	RemovePhoto(c *gin.Context)
	SetPrimaryPhoto(c *gin.Context)
}

type AvailabilityHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Respond(c *gin.Context)
	Confirm(c *gin.Context)
	Start(c *gin.Context)
	Complete(c *gin.Context)
	Cancel(c *gin.Context)
}

type ReviewHTTP interface {
	ListForHost(c *gin.Context)
	Submit(c *gin.Context)
	Update(c *gin.Context)
	Respond(c *gin.Context)
	Moderate(c *gin.Context)
}

type Handlers struct {
	Hosts          HostHTTP
	Availability   AvailabilityHTTP
	Bookings       BookingHTTP
	Reviews        ReviewHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the engine without touching the global gin mode.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Hosts != nil {
		api.POST("/hosts", h.Hosts.Create)
		api.GET("/hosts", h.Hosts.Search)
		api.GET("/hosts/:id", h.Hosts.Get)
		api.PUT("/hosts/:id", h.Hosts.Update)
		api.DELETE("/hosts/:id", h.Hosts.Delete)
		api.POST("/hosts/:id/photos", h.Hosts.AddPhoto)
		api.DELETE("/hosts/:id/photos/:photoId", h.Hosts.RemovePhoto)
		api.POST("/hosts/:id/photos/:photoId/primary", h.Hosts.SetPrimaryPhoto)
	}
	if h.Availability != nil {
		api.GET("/hosts/:id/availability", h.Availability.List)
		api.POST("/hosts/:id/availability", h.Availability.Create)
		api.DELETE("/hosts/:id/availability/:blockId", h.Availability.Delete)
	}
	if h.Bookings != nil {
		api.POST("/bookings", h.Bookings.Create)
		api.GET("/bookings", h.Bookings.List)
		api.GET("/bookings/:id", h.Bookings.Get)
		api.PATCH("/bookings/:id", h.Bookings.Update)
		api.POST("/bookings/:id/respond", h.Bookings.Respond)
		api.POST("/bookings/:id/confirm", h.Bookings.Confirm)
		api.POST("/bookings/:id/start", h.Bookings.Start)
		api.POST("/bookings/:id/complete", h.Bookings.Complete)
		api.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	}
	if h.Reviews != nil {
		api.GET("/hosts/:id/reviews", h.Reviews.ListForHost)
		api.POST("/bookings/:id/review", h.Reviews.Submit)
		api.PATCH("/reviews/:id", h.Reviews.Update)
		api.POST("/reviews/:id/response", h.Reviews.Respond)
		api.POST("/reviews/:id/moderation", h.Reviews.Moderate)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
