package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/attune-labs/attune-agent/internal/adapters/http"
	"github.com/attune-labs/attune-agent/internal/adapters/sentiment"
	firestorestore "github.com/attune-labs/attune-agent/internal/adapters/storage/firestore"
	memstore "github.com/attune-labs/attune-agent/internal/adapters/storage/memory"
	"github.com/attune-labs/attune-agent/internal/adapters/voice"
	"github.com/attune-labs/attune-agent/internal/adapters/whatsapp"
	"github.com/attune-labs/attune-agent/internal/app/analytics"
	"github.com/attune-labs/attune-agent/internal/app/checkin"
	"github.com/attune-labs/attune-agent/internal/app/reminder"
	"github.com/attune-labs/attune-agent/internal/app/report"
	"github.com/attune-labs/attune-agent/internal/app/tasks"
	"github.com/attune-labs/attune-agent/internal/config"
	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
	"github.com/attune-labs/attune-agent/internal/scheduler"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Storage: Firestore or Memory
	var (
		users  domain.UserStore
		checks domain.CheckInStore
		taskDB domain.TaskStore
		ledger domain.ReminderLedger
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("failed to init firestore", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		// one store, four ports
		users = store
		checks = store
		taskDB = store
		ledger = store

	default:
		log.Info("using in-memory storage")
		users = memstore.NewUserStore()
		checks = memstore.NewCheckInStore()
		taskDB = memstore.NewTaskStore()
		ledger = memstore.NewReminderLedger()
	}

	// Sentiment: Vertex when a GCP project is configured, keyword
	// fallback otherwise.
	var analyzer domain.SentimentAnalyzer
	if cfg.GCPProjectID != "" {
		analyzer, err = sentiment.NewVertexAnalyzer(ctx, cfg)
		if err != nil {
			log.Error("failed to init vertex sentiment", "error", err)
			os.Exit(1)
		}
		log.Info("using vertex sentiment analyzer", "model", cfg.ModelName)
	} else {
		analyzer = sentiment.NewKeywordAnalyzer()
		log.Info("using keyword sentiment analyzer")
	}

	var transcriber domain.Transcriber
	if cfg.OpenAIAPIKey != "" {
		transcriber = voice.NewTranscriber(cfg.OpenAIAPIKey)
		log.Info("voice transcription enabled")
	}

	wa := whatsapp.NewClient(cfg)

	thresholds := checkin.Thresholds{Positive: cfg.SentimentPositive, Negative: cfg.SentimentNegative}
	checkinSvc := checkin.NewService(users, checks, wa, analyzer, thresholds)
	reminderSvc := reminder.NewService(users, checks, ledger, wa)
	taskSvc := tasks.NewService(taskDB)
	reportSvc := report.NewService(users, checks, taskDB, wa)
	analyticsSvc := analytics.NewService(users, checks, taskDB)

	if cfg.InlineCron {
		sched, err := scheduler.New(cfg, checkinSvc, reminderSvc, reportSvc)
		if err != nil {
			log.Error("failed to init scheduler", "error", err)
			os.Exit(1)
		}
		sched.Start(ctx)
	}

	handler := httpadapter.NewServer(
		cfg, users, checks, wa, wa, transcriber,
		checkinSvc, reminderSvc, taskSvc, reportSvc, analyticsSvc,
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("attune api listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
