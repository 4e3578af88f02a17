package cli

import (
	"context"
	"log"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/config"
	"quiz-draw-service/internal/infra/memory"
	"quiz-draw-service/internal/infra/postgres"
	rediscache "quiz-draw-service/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewSeedCmd migrates the database and upserts the bundled sample quizzes.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample quizzes into postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader := postgres.NewQuizLoader(pool)
	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		quizzes app.QuizRepository = memory.NewQuizRepository(loader, quizTTL)
		cache   app.QuizCache
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		// Running servers share this cache; drop their stale snapshots.
		cached := rediscache.NewQuizRepository(client, loader, quizTTL)
		quizzes, cache = cached, cached
	}

	return seedQuizzes(ctx, app.NewQuizService(loader, quizzes, cache))
}

func seedQuizzes(ctx context.Context, quizzes *app.QuizService) error {
	for _, quiz := range sampleQuizzes() {
		saved, err := quizzes.Save(ctx, quiz)
		if err != nil {
			return err
		}
		log.Printf("seeded quiz %s (%d questions)", saved.ID, len(saved.Questions))
	}
	return nil
}
