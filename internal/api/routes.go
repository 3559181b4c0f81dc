package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soorozco/controldoc/internal/api/handlers"
	"github.com/soorozco/controldoc/internal/api/middleware"
	"github.com/soorozco/controldoc/internal/services"
	"github.com/soorozco/controldoc/pkg/metrics"
	"go.uber.org/zap"
)

type Router struct {
	engine           *gin.Engine
	logger           *zap.Logger
	metrics          *metrics.MetricsCollector
	docHandler       *handlers.DocumentHandler
	recordHandler    *handlers.RecordHandler
	personnelHandler *handlers.PersonnelHandler
	reqMiddleware    *middleware.RequestMiddleware
}

func NewRouter(
	logger *zap.Logger,
	metrics *metrics.MetricsCollector,
	docService *services.DocumentService,
	recordService *services.RecordService,
	personnelService *services.PersonnelService,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())

	return &Router{
		engine:           engine,
		logger:           logger,
		metrics:          metrics,
		docHandler:       handlers.NewDocumentHandler(docService, logger),
		recordHandler:    handlers.NewRecordHandler(recordService, logger),
		personnelHandler: handlers.NewPersonnelHandler(personnelService, logger),
		reqMiddleware:    reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "controldoc"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.GetCounters(),
			"latencies": r.metrics.GetLatencies(),
			"sizes":     r.metrics.GetSizes(),
		})
	})

	apiGroup := r.engine.Group("/api")
	{
		apiGroup.POST("/documents/upload", r.docHandler.Upload)
		apiGroup.GET("/documents", r.docHandler.List)
		apiGroup.GET("/documents/proximas-revisiones", r.docHandler.UpcomingReviews)
		apiGroup.GET("/documents/:codigo", r.docHandler.Detail)
		apiGroup.PUT("/documents/:codigo/pasos", r.docHandler.UpdateSteps)
		apiGroup.POST("/documents/:codigo/estado", r.docHandler.Transition)
		apiGroup.DELETE("/documents/:codigo", r.docHandler.Delete)
		apiGroup.GET("/log-estados", r.docHandler.StatusLog)

		apiGroup.GET("/registros", r.recordHandler.List)
		apiGroup.POST("/registros", r.recordHandler.Create)
		apiGroup.DELETE("/registros/:codigo", r.recordHandler.Delete)

		apiGroup.GET("/personal", r.personnelHandler.List)
		apiGroup.GET("/personal/export", r.personnelHandler.ExportCSV)
		apiGroup.POST("/personal", r.personnelHandler.Create)
		apiGroup.DELETE("/personal/:nombre", r.personnelHandler.Delete)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
