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
	config "github.com/valleops/postpilot/configs"
	"github.com/valleops/postpilot/internal/api/handlers"
	"github.com/valleops/postpilot/internal/api/middleware"
	job "github.com/valleops/postpilot/internal/jobs"
	"github.com/valleops/postpilot/internal/publisher"
	"github.com/valleops/postpilot/internal/queue"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/service"
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

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Cron-Secret",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRecordRepo := repository.NewPostRecordRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	postingHistoryRepo := repository.NewPostingHistoryRepository(db)
	userProfileRepo := repository.NewUserProfileRepository(db)
	areaAssignmentRepo := repository.NewAreaAssignmentRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	fanout := publisher.NewFanoutPublisher(socialAccountRepo,
		publisher.NewInstagramClient(*cfg),
		publisher.NewFacebookClient(*cfg),
		publisher.NewYoutubeClient(*cfg),
	)

	enqueuer := queue.NewEnqueuer(client)

	guardService := service.NewGuardService(userProfileRepo, areaAssignmentRepo)
	publishService := service.NewPublishService(postRecordRepo, postingHistoryRepo, fanout, cfg.SweepBatchSize)
	intakeService := service.NewIntakeService(postRecordRepo, guardService, publishService, fanout, enqueuer)
	approvalService := service.NewApprovalService(postRecordRepo, guardService, publishService, enqueuer)
	postService := service.NewPostService(postRecordRepo, guardService)
	r2Service := service.NewR2Service(*cfg)
	mediaService := service.NewMediaService(mediaAssetRepo, guardService, r2Service)
	accountService := service.NewAccountService(socialAccountRepo, guardService)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	sweep := handlers.NewSweepHandler(*cfg, publishService)
	app.Post("/cron/sweep", sweep.RunSweep)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	apiKeys := handlers.NewAPIKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateAPIKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(intakeService, postService)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	approval := handlers.NewApprovalHandler(approvalService)
	api.Post("/posts/approval", approval.Decide)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.UploadMedia)
	api.Get("/media", media.ListMedia)

	accounts := handlers.NewAccountHandler(accountService)
	api.Get("/accounts", accounts.ListAccounts)

	// cron jobs
	sweepJob := job.NewPublishSweepJob(publishService)
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, fanout)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", sweepJob.Run)
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	// queue worker
	worker := queue.NewWorker(postRecordRepo, publishService)

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, worker.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

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
