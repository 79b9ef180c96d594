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
	config "github.com/postdrip/postdrip/configs"
	"github.com/postdrip/postdrip/internal/api/handlers"
	"github.com/postdrip/postdrip/internal/api/middleware"
	job "github.com/postdrip/postdrip/internal/jobs"
	"github.com/postdrip/postdrip/internal/queue"
	"github.com/postdrip/postdrip/internal/repository"
	"github.com/postdrip/postdrip/internal/service"
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
		ReadTimeout:  time.Minute,
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	secretsService := service.NewSecretsService(*cfg)
	credsService := service.NewCredentialsService(secretsService, cfg.AWS.SecretName,
		time.Duration(cfg.Publishing.CredentialsTTL)*time.Minute)
	openaiService := service.NewOpenAIService(*cfg)
	generatorService := service.NewGeneratorService(openaiService)
	linkedinService := service.NewLinkedInService()
	postService := service.NewPostService(db, *cfg, postRepo, articleRepo, generatorService)
	publisherService := service.NewPublisherService(*cfg, postRepo, articleRepo, credsService, linkedinService)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg)
	app.Post("/login", auth.Login)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(postService, publisherService, client)
	api.Post("/posts/generate", post.GenerateForArticle)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/remove", post.RemovePost)
	api.Post("/posts/publish", post.PublishNow)

	publish := handlers.NewPublishHandler(publisherService)
	api.Post("/publish/run", publish.RunScheduledPublish)

	// cron jobs
	publishJob := job.NewPublishJob(publisherService)

	//queue
	queueW := queue.NewQueue(publisherService)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", publishJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 1,
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
