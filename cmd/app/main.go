package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"workchat-intake-backend/cmd/app/internal/controller"
	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/internal/db"
	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/questionnaire"
	"workchat-intake-backend/internal/repository"
	"workchat-intake-backend/internal/service"
	"workchat-intake-backend/pkg/middleware"
	"workchat-intake-backend/utilities"
)

func main() {
	printStartUpBanner()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := utilities.SetupLogging(cfg.Logging); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	// Initialize DB using the loaded config.
	if err := db.InitDBFromConfig(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	conn := db.GetDB()
	// Run migrations.
	if err := conn.AutoMigrate(&model.Questionnaire{}, &model.Response{}, &model.ResponseFile{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Create repositories.
	questionnaireRepo := repository.NewQuestionnaireRepository(conn)
	responseRepo := repository.NewResponseRepository(conn)

	// Create services.
	engine := questionnaire.NewEngine(questionnaire.Options{StrictContains: cfg.Engine.StrictContains})
	questionnaireService := service.NewQuestionnaireService(questionnaireRepo)
	responseService := service.NewResponseService(responseRepo, questionnaireRepo, engine, utilities.GlobalEventBus)
	submissionService := service.NewSubmissionService(responseRepo, service.NewMailer(cfg.Mail), cfg.Mail.From)
	uploadService := service.NewUploadService(responseService, responseRepo, cfg.Upload)
	service.InitSubmissionEventListeners(utilities.GlobalEventBus, submissionService)

	if cfg.DB.Initialize {
		if err := seedDemo(questionnaireService); err != nil {
			utilities.Error("seed demo questionnaire: %v", err)
		}
	}

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(corsConfig(cfg.Context.CORSOrigins)))
	r.Use(utilities.SubdomainMiddleware())
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	controller.RegisterRoutes(r, questionnaireService, responseService, submissionService, uploadService, cfg.Upload, limiter)

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	server := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utilities.Error("shutdown: %v", err)
		}
	}()

	utilities.Info("listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	// Let pending submission emails go out.
	utilities.GlobalEventBus.Wait()
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("WORKCHAT", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("WORKCHAT INTAKE API (v%s)\n\n", "1.0.0")
}
