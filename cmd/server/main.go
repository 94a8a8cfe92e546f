package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/staysafe/stay-safe-api/internal/advisory"
	"github.com/staysafe/stay-safe-api/internal/config"
	"github.com/staysafe/stay-safe-api/internal/database"
	"github.com/staysafe/stay-safe-api/internal/handler"
	"github.com/staysafe/stay-safe-api/internal/logger"
	"github.com/staysafe/stay-safe-api/internal/queue"
	"github.com/staysafe/stay-safe-api/internal/repository"
	"github.com/staysafe/stay-safe-api/internal/router"
	"github.com/staysafe/stay-safe-api/internal/service"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("schema migration failed", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, response cache and rate limiting disabled")
	}

	advisor := advisory.NewClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, log)

	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)
	resources := repository.NewResourceRepo(db)
	assessments := repository.NewAssessmentRepo(db)
	interactions := repository.NewInteractionRepo(db)

	assessmentSvc := &service.AssessmentService{
		Users:        users,
		Store:        assessments,
		Interactions: interactions,
		Advisor:      advisor,
		Publish:      publishCompleted,
		Logger:       log,
	}

	h := router.Handlers{
		Users:       handler.NewUserHandler(cfg, users),
		Assessments: handler.NewAssessmentHandler(assessmentSvc),
		AI:          handler.NewAIHandler(users, advisor),
		Articles:    handler.NewArticleHandler(articles),
		Resources:   handler.NewResourceHandler(resources),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = router.NewHTTPErrorHandler(cfg.Env, log)
	router.Register(e, cfg, h, rdb, log)

	go func() {
		if err := queue.StartAssessmentConsumer(); err != nil {
			log.Warn("assessment consumer stopped", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

// publishCompleted adapts a stored assessment into the broker event.
func publishCompleted(ctx context.Context, a repository.Assessment) error {
	return queue.PublishAssessmentCompleted(ctx, queue.AssessmentCompletedEvent{
		AssessmentID: a.ID,
		UserID:       a.UserID,
		Category:     a.Category,
		RiskLevel:    a.RiskLevel,
		Score:        a.Score,
		AIAnalyzed:   a.AIAnalysis.Valid,
		CompletedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	})
}
