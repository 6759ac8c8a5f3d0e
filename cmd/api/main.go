package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garment-mes/scantrack-service/pkg/errors"
	"github.com/garment-mes/scantrack-service/pkg/events"
	"github.com/garment-mes/scantrack-service/pkg/kafka"
	"github.com/garment-mes/scantrack-service/pkg/logging"
	"github.com/garment-mes/scantrack-service/pkg/metrics"
	"github.com/garment-mes/scantrack-service/pkg/middleware"
	"github.com/garment-mes/scantrack-service/pkg/mongodb"
	"github.com/garment-mes/scantrack-service/pkg/tracing"

	"github.com/garment-mes/scantrack-service/internal/api/dto"
	"github.com/garment-mes/scantrack-service/internal/application"
	"github.com/garment-mes/scantrack-service/internal/domain"
	mongoRepo "github.com/garment-mes/scantrack-service/internal/infrastructure/mongodb"
	redisGuard "github.com/garment-mes/scantrack-service/internal/infrastructure/redis"
)

const serviceName = "scantrack-service"

func main() {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting scantrack-service API")

	// Load configuration
	config := loadConfig()
	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(config.Kafka)
	defer kafkaProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize event factory
	eventFactory := events.NewFactory("/scantrack-service")

	// Initialize repositories and gateway
	scanRecords := mongoRepo.NewScanRecordRepository(mongoClient.Database())
	orderRepo := mongoRepo.NewProductionOrderRepository(mongoClient.Database(), scanRecords)
	gateway := mongoRepo.NewScanSubmissionGateway(scanRecords, logger.Logger)

	// Dedup guard: Redis when configured, in-process otherwise. A single
	// replica does not need Redis; multiple replicas behind one scanner
	// fleet do.
	var guard domain.ScanGuard
	var guardHealthCheck func() error
	if config.RedisAddr != "" {
		rg := redisGuard.NewScanGuard(&redisGuard.Config{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		}, logger)
		defer rg.Close()
		guard = rg
		guardHealthCheck = func() error { return rg.HealthCheck(ctx) }
		logger.Info("Using Redis dedup guard", "addr", config.RedisAddr)
	} else {
		guard = domain.NewMemoryScanGuard()
		logger.Info("Using in-process dedup guard")
	}

	// Initialize application services
	resolver := domain.NewStageResolver(domain.StageResolverConfig{
		HandoffProcessName: config.HandoffProcess,
		ReplayGuard:        guard,
	})
	scanService := application.NewScanService(application.ScanServiceDeps{
		Interpreter: domain.NewInterpreter(),
		Resolver:    resolver,
		Guard:       guard,
		Orders:      orderRepo,
		Gateway:     gateway,
		Precheck:    domain.QuantityPrecheck{},
		Publisher:   kafkaProducer,
		Factory:     eventFactory,
		Metrics:     m,
		Logger:      logger,
	})
	reportService := application.NewReportService(scanRecords, logger)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		if err := mongoClient.HealthCheck(ctx); err != nil {
			return err
		}
		if guardHealthCheck != nil {
			return guardHealthCheck()
		}
		return nil
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	api := router.Group("/api/v1")
	{
		api.POST("/scans", submitScanHandler(scanService, logger))
		api.POST("/scans/interpret", interpretScanHandler(scanService, logger))
		api.POST("/scans/hold", holdScanHandler(scanService, logger))
		api.GET("/orders/:orderNo/workflow", getWorkflowHandler(scanService, logger))
		api.GET("/reports/daily", dailyReportHandler(reportService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr     string
	HandoffProcess string
	RedisAddr      string
	RedisPassword  string
	MongoDB        *mongodb.Config
	Kafka          *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8040"),
		HandoffProcess: getEnv("HANDOFF_PROCESS", domain.DefaultHandoffProcessName),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "garment_mes"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTP Handlers

func submitScanHandler(service *application.ScanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.SubmitScanRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"scan.operator": req.OperatorID,
		})

		result, err := service.SubmitScan(c.Request.Context(), application.SubmitScanCommand{
			RawCode:          req.ScanCode,
			OperatorID:       req.OperatorID,
			Workstation:      req.Workstation,
			ProcessOverride:  req.ProcessName,
			ManualQuantity:   req.Quantity,
			DefectiveReentry: req.DefectiveReentry,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Set(middleware.ContextKeyOrderNo, result.OrderNo)
		c.Set(middleware.ContextKeyScanMode, string(result.Mode))

		status := http.StatusCreated
		if result.Completed || result.Duplicate || result.Deferred {
			// Understood but nothing new written.
			status = http.StatusOK
		}
		c.JSON(status, toSubmitResponse(result))
	}
}

func interpretScanHandler(service *application.ScanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.InterpretScanRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.InterpretScan(c.Request.Context(), application.InterpretScanCommand{
			RawCode: req.ScanCode,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Set(middleware.ContextKeyOrderNo, result.Parsed.OrderNo)
		c.Set(middleware.ContextKeyScanMode, string(result.Mode))

		c.JSON(http.StatusOK, toInterpretResponse(result))
	}
}

func holdScanHandler(service *application.ScanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.HoldScanRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		if err := service.HoldScan(c.Request.Context(), application.HoldScanCommand{
			RawCode:    req.ScanCode,
			OperatorID: req.OperatorID,
		}); err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, dto.HoldScanResponse{
			Held:       true,
			TTLSeconds: int(domain.ConfirmTTL.Seconds()),
			Message:    "scan held pending confirmation",
		})
	}
}

func getWorkflowHandler(service *application.ScanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		orderNo := c.Param("orderNo")
		view, err := service.GetWorkflow(c.Request.Context(), orderNo)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Set(middleware.ContextKeyOrderNo, view.OrderNo)
		c.JSON(http.StatusOK, toWorkflowResponse(view))
	}
}

func dailyReportHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		date := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responder.RespondBadRequest("date must be formatted YYYY-MM-DD")
				return
			}
			date = parsed
		}

		workbook, filename, err := service.DailyReport(c.Request.Context(), application.DailyReportQuery{Date: date})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
	}
}

func respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

// Response mapping

func toSubmitResponse(result *application.SubmitScanResult) dto.SubmitScanResponse {
	return dto.SubmitScanResponse{
		RecordID:         result.RecordID,
		Mode:             string(result.Mode),
		Message:          result.Message,
		OrderNo:          result.OrderNo,
		BundleNo:         result.BundleNo,
		ProcessName:      result.ProcessName,
		Quantity:         result.Quantity,
		Deferred:         result.Deferred,
		Completed:        result.Completed,
		Duplicate:        result.Duplicate,
		Handoff:          result.Handoff,
		ScannedProcesses: result.ScannedProcesses,
		AllProcesses:     result.AllProcesses,
	}
}

func toInterpretResponse(result *application.InterpretScanResult) dto.InterpretScanResponse {
	p := result.Parsed
	return dto.InterpretScanResponse{
		Mode:       string(result.Mode),
		Recognized: p.Recognized,
		Source:     string(p.Source),
		ScanCode:   p.ScanCode,
		OrderNo:    p.OrderNo,
		OrderID:    p.OrderID,
		StyleNo:    p.StyleNo,
		Color:      p.Color,
		Size:       p.Size,
		BundleNo:   p.BundleNo,
		SkuNo:      p.SkuNo,
		PatternID:  p.PatternID,
		Quantity:   p.Quantity,
	}
}

func toWorkflowResponse(view *application.WorkflowView) dto.WorkflowResponse {
	nodes := make([]dto.WorkflowNodeResponse, 0, len(view.Nodes))
	for _, node := range view.Nodes {
		nodes = append(nodes, dto.WorkflowNodeResponse{
			Name:          node.Name,
			UnitPrice:     node.UnitPrice,
			SortOrder:     node.SortOrder,
			ProgressStage: node.ProgressStage,
		})
	}
	return dto.WorkflowResponse{
		OrderNo:         view.OrderNo,
		StyleNo:         view.StyleNo,
		OverallProgress: view.OverallProgress,
		ActiveStageName: view.ActiveStageName,
		Nodes:           nodes,
	}
}
