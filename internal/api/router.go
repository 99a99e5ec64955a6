// Package api is the HTTP surface: inquiry triage, lead scoring, contact
// submissions, WhatsApp relay, and health endpoints.
package api

import (
	"context"
	"net/http"

	"endicode-workers/internal/analytics"
	"endicode-workers/internal/common/config"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/observability"
	"endicode-workers/internal/contact"
	"endicode-workers/internal/leads"
	"endicode-workers/internal/whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ContactService interface {
	Submit(ctx context.Context, sub contact.Submission) (*contact.Result, error)
	List(ctx context.Context) ([]contact.Contact, error)
}

type WhatsAppSender interface {
	Configured() bool
	Relay(ctx context.Context, r whatsapp.Request) (*whatsapp.SendResponse, error)
}

// EventReader lists recently tracked analytics events.
type EventReader interface {
	Recent(ctx context.Context, n int64) ([]analytics.Event, error)
}

// Check is a readiness probe for one dependency.
type Check func(ctx context.Context) error

// Deps are the collaborators the handlers call. Events, Obs and Checks may be
// nil.
type Deps struct {
	Contacts ContactService
	Leads    *leads.Pipeline
	WhatsApp WhatsAppSender
	Sink     analytics.Sink
	Events   EventReader
	Obs      *observability.Observability
	Checks   map[string]Check
}

type handlers struct {
	deps   Deps
	app    config.AppConfig
	server config.ServerConfig
	log    logger.Logger
}

// NewRouter wires every route onto a gin engine.
func NewRouter(app config.AppConfig, server config.ServerConfig, deps Deps, log logger.Logger) *gin.Engine {
	if deps.Sink == nil {
		deps.Sink = analytics.NopSink{}
	}
	h := &handlers{
		deps:   deps,
		app:    app,
		server: server,
		log:    log.WithFields(map[string]interface{}{"component": "api"}),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), requestLogger(h.log), requestMetrics())

	corsConfig := cors.DefaultConfig()
	if len(server.AllowedOrigins) == 0 || containsWildcard(server.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = server.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	router.GET("/health", h.health)
	router.GET("/ready", h.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/contact", h.submitContact)
		api.GET("/contacts", h.listContacts)

		api.POST("/analyze", h.analyze)
		api.POST("/detect-industry", h.detectIndustry)

		api.POST("/leads/score", h.scoreLeads)
		api.POST("/leads/export", h.exportLeads)

		api.POST("/whatsapp/send", h.sendWhatsApp)
		api.GET("/whatsapp/messages", h.pollWhatsApp)

		api.GET("/analytics/events", h.recentEvents)
	}

	return router
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
