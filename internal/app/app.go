package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/milena-kos/good-morning/internal/config"
	"github.com/milena-kos/good-morning/internal/holiday"
	"github.com/milena-kos/good-morning/internal/scheduler"
	"github.com/milena-kos/good-morning/internal/store"
	"github.com/milena-kos/good-morning/internal/telegram"
	"github.com/milena-kos/good-morning/internal/timeparse"
	"github.com/milena-kos/good-morning/internal/waifu"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	sched   *scheduler.Scheduler
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting good-morning bot",
		zap.String("store", a.cfg.StorePath),
		zap.String("http", a.cfg.HTTPAddr),
	)

	kv, err := a.openStore(afero.NewOsFs())
	if err != nil {
		a.log.Error("open store failed", zap.Error(err))
		return err
	}
	repo := store.NewRepository(kv)
	a.log.Info("store ready")

	resolver := timeparse.New(a.cfg.DefaultTZ)
	holidays := holiday.New(a.cfg.HolidayAPIURL)
	images := waifu.New(a.cfg.WaifuAPIURL)

	a.router = telegram.NewRouter(a.bot, a.log, repo, resolver, holidays, images)
	a.sched = scheduler.New(repo, a.log, a.router)
	a.router.BindScheduler(a.sched)

	// Re-arm one delivery task per persisted reminder; overdue ones fire
	// right away.
	if err := a.sched.RestoreAll(); err != nil {
		a.log.Error("restore reminders failed", zap.Error(err))
		return err
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			// Pending rows stay persisted and are restored on next start.
			a.sched.Stop()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// openStore loads the store file, optionally provisioning an empty one on
// first run.
func (a *App) openStore(fs afero.Fs) (*store.FileStore, error) {
	if a.cfg.StoreBootstrap {
		exists, err := afero.Exists(fs, a.cfg.StorePath)
		if err == nil && !exists {
			a.log.Info("creating empty store file", zap.String("path", a.cfg.StorePath))
			return store.Create(fs, a.cfg.StorePath)
		}
	}
	return store.Open(fs, a.cfg.StorePath)
}
