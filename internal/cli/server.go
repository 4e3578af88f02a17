package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/config"
	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/infra/memory"
	"quiz-draw-service/internal/infra/postgres"
	rediscache "quiz-draw-service/internal/infra/redis"
	transport "quiz-draw-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz and draw server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	static := memory.NewStaticQuizLoader(sampleQuizzes())
	var (
		loader      memory.QuizLoader = static
		quizStore   app.QuizStore     = static
		submissions app.SubmissionRepository
		winners     app.WinnerRepository
	)
	if pool != nil {
		pgQuizzes := postgres.NewQuizLoader(pool)
		loader, quizStore = pgQuizzes, pgQuizzes
		submissions = postgres.NewSubmissionStore(pool)
		winners = postgres.NewWinnerStore(pool)
	} else {
		log.Printf("postgres not configured; submissions and winners are kept in memory")
		submissions = memory.NewSubmissionStore()
		winners = memory.NewWinnerStore()
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		quizRepo  app.QuizRepository
		quizCache app.QuizCache
	)
	if redisClient != nil {
		cached := rediscache.NewQuizRepository(redisClient, loader, quizTTL)
		quizRepo, quizCache = cached, cached
	} else {
		cached := memory.NewQuizRepository(loader, quizTTL)
		quizRepo, quizCache = cached, cached
	}

	var rooms app.DrawRoomRepository
	if redisClient != nil {
		rooms = rediscache.NewRoomStore(redisClient, redisTTL)
	} else {
		rooms = memory.NewRoomStore()
	}

	quizService := app.NewQuizService(quizStore, quizRepo, quizCache)
	submissionService := app.NewSubmissionService(quizRepo, submissions, loc)
	drawService := app.NewDrawService(submissions, winners, rooms, app.DrawSettings{
		Pacing:   cfg.DrawPacing(),
		Location: loc,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAPIHandler(quizService, submissionService, drawService, loc).Register(mux)
	mux.HandleFunc("/ws/draw", transport.NewDrawWSHandler(drawService).ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would cut long-lived draw streams.
	}

	go func() {
		log.Printf("starting quiz draw service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes is served when Postgres is not configured and written by
// the seed command.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:       "quiz-1",
			Title:    "مسابقة اليوم",
			IsActive: true,
			Questions: []domain.Question{
				{
					ID:            "q1",
					Type:          domain.MultipleChoice,
					Text:          "ما عاصمة مصر؟",
					Options:       []string{"القاهرة", "الإسكندرية", "أسوان"},
					CorrectAnswer: domain.TextAnswer("القاهرة"),
					Points:        1,
					Order:         1,
				},
				{
					ID:            "q2",
					Type:          domain.TrueFalse,
					Text:          "نهر النيل أطول أنهار العالم.",
					CorrectAnswer: domain.BoolAnswer(true),
					Points:        1,
					Order:         2,
				},
				{
					ID:            "q3",
					Type:          domain.Ordering,
					Text:          "رتب الأشهر الهجرية.",
					Options:       []string{"صفر", "محرم", "ربيع الأول"},
					CorrectAnswer: domain.ListAnswer("محرم", "صفر", "ربيع الأول"),
					Points:        2,
					Order:         3,
				},
				{
					ID:            "q4",
					Type:          domain.ImageText,
					Text:          "ما اسم هذا المعلم؟",
					MediaURL:      "/uploads/pyramids.jpg",
					MediaType:     "image",
					CorrectAnswer: domain.TextAnswer("الأهرامات"),
					Points:        2,
					Order:         4,
				},
			},
		},
	}
}
