package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tahadi-quiz-service/internal/app"
	"tahadi-quiz-service/internal/config"
	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/infra/memory"
	pgloader "tahadi-quiz-service/internal/infra/postgres"
	redisinfra "tahadi-quiz-service/internal/infra/redis"
	transport "tahadi-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia challenge server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader
	var lister transport.SubjectLister
	if pool != nil {
		pg := pgloader.NewBankLoader(pool)
		loader, lister = pg, pg
	} else {
		static := memory.NewStaticBankLoader(sampleBanks())
		loader, lister = static, static
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	var roomStore app.RoomStore
	var profileStore app.ProfileStore
	if redisClient != nil {
		roomStore = redisinfra.NewRoomStore(redisClient, redisTTL)
		profileStore = redisinfra.NewProfileStore(redisClient)
	} else {
		roomStore = memory.NewRoomStore()
		profileStore = memory.NewProfileStore()
	}

	service := app.NewGameService(bankRepo, roomStore, profileStore, gameConfig(cfg))
	wsHandler := transport.NewWSHandler(service)
	roomsHandler := transport.NewRoomsHandler(service)
	subjectsHandler := transport.NewSubjectsHandler(lister)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/rooms/create", roomsHandler.Create)
	mux.HandleFunc("/rooms/join", roomsHandler.Join)
	mux.HandleFunc("/rooms/start", roomsHandler.Start)
	mux.HandleFunc("/rooms", roomsHandler.Get)
	mux.HandleFunc("/subjects", subjectsHandler.List)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
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

func gameConfig(cfg config.Config) app.Config {
	return app.Config{
		TimePerQuestion:        cfg.Game.TimePerQuestion,
		GraceDelay:             config.TTLDuration(cfg.Game.GraceDelay, 500*time.Millisecond),
		ProbabilityCorrect:     cfg.Game.Opponent.ProbabilityCorrect,
		FillProbabilityCorrect: cfg.Game.Opponent.FillProbabilityCorrect,
		MinOpponentDelay:       config.TTLDuration(cfg.Game.Opponent.MinDelay, 2*time.Second),
		MaxOpponentDelay:       config.TTLDuration(cfg.Game.Opponent.MaxDelay, 7*time.Second),
	}
}

// sampleBanks provides a minimal bilingual question catalog; swap this
// loader with the Postgres-backed one in production.
func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		"math": {
			SubjectID: "math",
			Questions: []domain.Question{
				{ID: "m1", Text: "ما ناتج: 5 + 7 ؟", Options: []string{"10", "12", "13", "11"}, CorrectIndex: 1, Points: 5, Difficulty: domain.DifficultyEasy},
				{ID: "m2", Text: "ما ناتج: 8 × 3 ؟", Options: []string{"21", "24", "27", "18"}, CorrectIndex: 1, Points: 5, Difficulty: domain.DifficultyEasy},
				{ID: "m6", Text: "ما قيمة س إذا كان: 3س + 5 = 20 ؟", Options: []string{"3", "5", "7", "15"}, CorrectIndex: 1, Points: 10, Difficulty: domain.DifficultyMedium},
				{ID: "m11", Text: "ما الحد التالي في المتتالية: 2، 6، 18، 54، ... ؟", Options: []string{"108", "162", "72", "216"}, CorrectIndex: 1, Points: 15, Difficulty: domain.DifficultyHard},
			},
		},
		"english": {
			SubjectID: "english",
			Questions: []domain.Question{
				{ID: "e5", Text: "How many days are in a week?", Options: []string{"5", "6", "7", "8"}, CorrectIndex: 2, Points: 5, Difficulty: domain.DifficultyEasy},
				{ID: "e7", Text: `What is the past participle of "write"?`, Options: []string{"wrote", "written", "writing", "writes"}, CorrectIndex: 1, Points: 10, Difficulty: domain.DifficultyMedium},
			},
		},
	}
}
