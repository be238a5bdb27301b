package app

import (
	"database/sql"
	"fmt"
	"log"

	"fieldops/internal/config"
	"fieldops/internal/handlers"
	"fieldops/internal/middleware"
	"fieldops/internal/pdf"
	"fieldops/internal/realtime"
	"fieldops/internal/repositories"
	"fieldops/internal/routes"
	"fieldops/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fieldops/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Redis (кэш счётчиков непрочитанного) ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	salesRepo := repositories.NewSalesRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	leaveRepo := repositories.NewLeaveRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Telegram-уведомления; при пустом токене нотификатор nil-безопасен
	var notifier *services.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = services.NewNotifier(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("Telegram отключен: %v", err)
		}
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	clientService := services.NewClientService(clientRepo)
	salesService := services.NewSalesService(salesRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	leaveService := services.NewLeaveService(leaveRepo, userService, emailService, notifier)

	unreadCache := services.NewUnreadCache(rdb)
	chatService := services.NewChatService(chatRepo, messageRepo, unreadCache)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)

	// === Realtime ===
	hub := realtime.NewHub()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	salesHandler := handlers.NewSalesHandler(salesService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	chatHandler := handlers.NewChatHandler(chatService, hub)
	reportsHandler := handlers.NewReportsHandler(salesService, attendanceService, leaveService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		clientHandler,
		salesHandler,
		attendanceHandler,
		leaveHandler,
		chatHandler,
		reportsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
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
