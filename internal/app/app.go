package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "opphub/docs"
	"opphub/internal/config"
	"opphub/internal/handlers"
	"opphub/internal/jobs"
	"opphub/internal/pdf"
	"opphub/internal/repositories"
	"opphub/internal/routes"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

func Run() {
	cfg := config.LoadConfig()
	logger.InitLogger()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Log.Errorf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	oppRepo := repositories.NewOpportunityRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	volRepo := repositories.NewVolunteerRepository(db)
	langRepo := repositories.NewLanguageRepository(db)
	commRepo := repositories.NewCommunityRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	lookupRepo := repositories.NewLookupRepository(db)
	linkRepo := repositories.NewTelegramLinkRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	tgService, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		logger.Log.Fatalf("failed to init telegram bot: %v", err)
	}
	var tgSender services.TelegramSender
	if tgService != nil {
		tgSender = tgService
	}

	notifier := services.NewNotificationService(emailService, tgSender)
	search := services.NewKafkaSearchIndexer(cfg.Search)
	tagService := services.NewTagService(tagRepo)
	userService := services.NewUserService(userRepo)
	opportunityService := services.NewOpportunityService(
		oppRepo, tagRepo, volRepo, langRepo, userRepo, commRepo,
		tagService, notifier, search,
	)
	applicationService := services.NewApplicationService(
		appRepo, oppRepo, volRepo, userRepo, commRepo, tagRepo, tagService, notifier,
	)

	pdfGen := pdf.NewDocumentGenerator(cfg.Files.RootDir, "assets/fonts/DejaVuSans.ttf")
	reportService := services.NewReportService(commRepo, oppRepo, volRepo, userRepo, pdfGen)

	// === Jobs ===
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	go jobs.NewDueNotifier(oppRepo, volRepo, userRepo, notifier).Run(jobCtx)

	// === Handlers ===
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	authHandler := handlers.NewAuthHandler(userService, jwtSecret)
	userHandler := handlers.NewUserHandler(userService)
	opportunityHandler := handlers.NewOpportunityHandler(opportunityService, userService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	lookupHandler := handlers.NewLookupHandler(lookupRepo)
	reportHandler := handlers.NewReportHandler(reportService, cfg.Files.RootDir)

	var integrationsHandler *handlers.IntegrationsHandler
	if tgService != nil {
		integrationsHandler = handlers.NewIntegrationsHandler(tgService, linkRepo, userRepo)
	}

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		userHandler,
		opportunityHandler,
		applicationHandler,
		lookupHandler,
		reportHandler,
		integrationsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Log.Infof("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		logger.Log.Fatalf("server failed: %v", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
