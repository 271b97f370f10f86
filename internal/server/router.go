package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/CardioRisk/internal/session"
)

type Options struct {
	StaticRoot     string
	MaxUploadBytes int64
	SessionTTL     time.Duration
}

type Handler struct {
	store session.Store
	log   logrus.FieldLogger
	opts  Options
}

func NewRouter(store session.Store, log logrus.FieldLogger, opts Options) *gin.Engine {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	h := &Handler{store: store, log: log, opts: opts}

	router := gin.New()
	router.Use(
		requestLogger(log),
		gin.Recovery(),
		limitBodySize(opts.MaxUploadBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.Static("/static", opts.StaticRoot)
	router.StaticFile("/", filepath.Join(opts.StaticRoot, "index.html"))
	router.StaticFile("/styles.css", filepath.Join(opts.StaticRoot, "styles.css"))
	router.StaticFile("/app.js", filepath.Join(opts.StaticRoot, "app.js"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", h.readyz)

	api := router.Group("/api")
	api.POST("/risk/score", h.scoreRecord)

	ds := api.Group("/dataset", h.withSession)
	ds.POST("", h.uploadDataset)
	ds.GET("", h.getDataset)
	ds.DELETE("", h.deleteDataset)
	ds.GET("/rows/:index", h.getRow)
	ds.POST("/rows/:index/score", h.scoreRow)

	api.GET("/charts", h.withSession, h.getCharts)

	return router
}
