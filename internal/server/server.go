package server

import (
	"codequest/configs"
	"codequest/internal/dbs"
	"codequest/internal/executor"
	"codequest/internal/handlers"
	"codequest/internal/judge"
	"codequest/internal/logger"
	"codequest/internal/middlewares"
	"codequest/internal/ranking"
	"codequest/internal/repositories"
	"codequest/internal/services"
	"codequest/internal/workerpool"

	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const rankRecomputeStream = "rank_recompute"

func StartGinServer() {
	logger.InitLogger()
	defer logger.SyncLogger()

	config := configs.LoadConfig()

	db, err := dbs.Init(config)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := dbs.InitRedis(ctx, config.RedisAddr); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer dbs.CloseRedis()

	cache := services.NewRedisCache(dbs.RedisClient)
	tokenService := services.NewTokenService(config.JWTSecret)

	challengeRepo := repositories.NewChallengeRepository(db, cache)
	submissionRepo := repositories.NewSubmissionRepository(db)
	rankingRepo := repositories.NewRankingRepository(db)
	userRepo := repositories.NewUserRepository(db, cache)

	execClient := executor.NewClient(config.ExecutorURL, config.ExecutorAPIKey, config.ExecutorProtocol)
	evaluator := judge.NewEvaluator(execClient)

	notifier := workerpool.NewStreamNotifier(dbs.RedisClient, rankRecomputeStream)
	engine := ranking.NewEngine(rankingRepo, notifier)

	recomputeWorker := workerpool.NewRecomputeWorker(dbs.RedisClient, rankRecomputeStream, "rankers", engine)
	if err := recomputeWorker.Start(ctx); err != nil {
		logger.Log.Error("Failed starting rank recompute worker")
		log.Fatalf("failed to start rank recompute worker: %v", err)
	}
	defer recomputeWorker.Stop()

	router := gin.New()
	router.Use(middlewares.ErrorHandlerMiddleware())

	auth := middlewares.AuthMiddleware(tokenService)
	optionalAuth := middlewares.OptionalAuthMiddleware(tokenService)

	handlers.NewAuthHandler(userRepo, tokenService).RegisterRoutes(router, auth)
	handlers.NewChallengeHandler(challengeRepo).RegisterRoutes(router, optionalAuth)
	handlers.NewSubmissionHandler(challengeRepo, submissionRepo, evaluator, engine).RegisterRoutes(router, auth)
	handlers.NewLeaderboardHandler(rankingRepo).RegisterRoutes(router, auth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	port := ":" + config.ServerPort
	log.Printf("Starting server on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
