package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/api/handlers"
	"github.com/maheshrc27/contentflow/internal/api/middleware"
	job "github.com/maheshrc27/contentflow/internal/jobs"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/kv"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	kvStore := kv.NewRedisStore(cfg.RedisURI)
	defer kvStore.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	generatedPostRepo := repository.NewGeneratedPostRepository(db)
	publishedPostRepo := repository.NewPublishedPostRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	clients := platform.NewRegistry(*cfg)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	connectService := service.NewConnectService(*cfg, clients, connectionRepo)
	publishService := service.NewPublishService(*cfg, clients, connectionRepo, publishedPostRepo)
	generateService := service.NewGenerateService(*cfg, clients, generatedPostRepo, articleRepo)
	scheduleService := service.NewScheduleService(clients, connectionRepo, scheduledPostRepo)
	articleService := service.NewArticleService(articleRepo, bookmarkRepo)
	mediaService := service.NewMediaService(*cfg, r2Service, mediaAssetRepo)
	analyticsService := service.NewAnalyticsService(publishedPostRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	rateLimit := middleware.NewRateLimitMiddleware(kvStore, 60, time.Minute)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Post("/logout", auth.Logout)

	connect := handlers.NewConnectHandler(*cfg, connectService)
	app.Get("/api/auth/:platform", connect.Connect)
	app.Get("/api/auth/:platform/callback", connect.Callback)

	api := app.Group("/api")
	api.Use(rateLimit.RateLimit())
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	api.Delete("/auth/:platform/disconnect", connect.Disconnect)
	api.Get("/connections", connect.ListConnections)

	publish := handlers.NewPublishHandler(publishService)
	api.Post("/publish", publish.Publish)
	api.Get("/published", publish.ListPublished)

	post := handlers.NewPostHandler(generateService, scheduleService, client)
	api.Post("/posts/generate", post.Generate)
	api.Get("/posts", post.ListGenerated)
	api.Post("/posts/remove", post.RemoveGenerated)
	api.Post("/posts/schedule", post.Schedule)
	api.Get("/posts/scheduled", post.ListScheduled)
	api.Post("/posts/scheduled/remove", post.RemoveScheduled)

	article := handlers.NewArticleHandler(articleService)
	api.Get("/articles", article.ListArticles)
	api.Post("/bookmarks/add", article.AddBookmark)
	api.Post("/bookmarks/remove", article.RemoveBookmark)
	api.Get("/bookmarks", article.ListBookmarks)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)
	api.Get("/media", media.ListAssets)
	api.Post("/media/remove", media.RemoveAsset)

	analytics := handlers.NewAnalyticsHandler(analyticsService)
	api.Get("/analytics", analytics.Summary)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(*cfg, clients, connectionRepo)
	articleFetchJob := job.NewArticleFetchJob(*cfg, articleRepo, settingsRepo)

	// queue
	queueW := queue.NewQueue(*cfg, clients, scheduledPostRepo, connectionRepo, publishedPostRepo)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.AddFunc("@every 01h00m00s", articleFetchJob.FetchArticles)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
