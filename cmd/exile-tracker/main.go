package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Wpsi1337/exile-tracker/internal/app"
	"github.com/Wpsi1337/exile-tracker/internal/httpclient"
	"github.com/Wpsi1337/exile-tracker/internal/jobs"
	"github.com/Wpsi1337/exile-tracker/internal/ninja"
	"github.com/Wpsi1337/exile-tracker/internal/ops"
	"github.com/Wpsi1337/exile-tracker/internal/publisher"
	"github.com/Wpsi1337/exile-tracker/internal/rate"
	intsecrets "github.com/Wpsi1337/exile-tracker/internal/secrets"
	"github.com/Wpsi1337/exile-tracker/internal/settings"
	"github.com/Wpsi1337/exile-tracker/internal/store"
	"github.com/Wpsi1337/exile-tracker/internal/tracker"
	"github.com/Wpsi1337/exile-tracker/pkg/config"
	"github.com/Wpsi1337/exile-tracker/pkg/logger"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
	pkgsecrets "github.com/Wpsi1337/exile-tracker/pkg/secrets"
	"github.com/Wpsi1337/exile-tracker/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	leagueFlag := flag.String("league", "", "target league")
	categoryFlag := flag.String("category", "", "starting category")
	gameFlag := flag.String("game", "", "game client: poe or poe2")
	limitFlag := flag.Int("limit", 0, "display row limit")
	intervalFlag := flag.Int("interval", 0, "refresh interval in seconds")
	cookieFlag := flag.String("cookie", "", "poe.ninja session cookie")
	flag.Parse()

	// The dashboard owns the terminal, so logs go to a file.
	logger.Init(cfg.ServiceName, cfg.LogPath, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [exile-tracker]...")
	if cfg.DatabaseURL != "" {
		logg.Info("history DSN: ", utils.MaskDSN(cfg.DatabaseURL))
	}

	// --- Settings (file-backed, survives restarts) ---
	settingsStore := settings.NewStore(logger.L(), cfg.SettingsPath)
	var userSettings settings.Settings
	if settingsStore.Exists() {
		userSettings = settingsStore.Load()
	} else {
		userSettings = app.PromptInitialSettings(os.Stdin, os.Stdout)
		if err := settingsStore.Save(userSettings); err != nil {
			logg.Warnw("initial settings save failed", "error", err)
		} else {
			fmt.Printf("Configuration saved to %s.\n", cfg.SettingsPath)
		}
	}
	userSettings = applyFlags(userSettings, *leagueFlag, *categoryFlag, *gameFlag, *limitFlag, *intervalFlag)

	// --- Session cookie resolver (flag > env > AWS Secrets Manager) ---
	explicitCookie := *cookieFlag
	if explicitCookie == "" {
		explicitCookie = cfg.NinjaCookie
	}
	var provider pkgsecrets.Provider
	if explicitCookie == "" {
		var err error
		provider, err = pkgsecrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Warnw("aws secrets provider unavailable", "error", err)
		}
	}
	secretsCache := pkgsecrets.NewCache[string](cfg.SecretsTTL)
	go secretsCache.StartCleaner(cfg.CleanupFreq, ctx.Done())
	resolver := intsecrets.NewResolver(
		logger.L(),
		cfg.SecretsEnv,
		explicitCookie,
		provider,
		secretsCache,
	)
	cookie, err := resolver.SessionCookie(ctx)
	if err != nil {
		logg.Warnw("session cookie resolution failed", "error", err)
	}
	if cookie != "" {
		logg.Info("session cookie configured: ", utils.MaskToken(cookie))
	}

	// --- Upstream client ---
	limiter := rate.New(rate.Config{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RequestBurst,
	})
	exec := httpclient.New(
		logger.L(),
		limiter,
		&http.Client{Timeout: cfg.HTTPTimeout},
		cfg.RetryMax,
		"ninja",
		ninja.ErrorHandler,
	)
	client := ninja.NewClient(logger.L(), exec, cfg.NinjaBaseURL, cookie)

	// --- Store (optional Redis mirror + Postgres history) ---
	var st store.Store
	if cfg.RedisAddr != "" {
		hybrid, err := store.NewHybrid(cfg.RedisAddr, cfg.RedisDB, cfg.DatabaseURL, logger.L())
		if err != nil {
			logg.Warnw("store unavailable, running in-memory only", "error", err)
		} else {
			st = hybrid
			defer st.Close() //nolint:errcheck
			if hybrid.PG != nil {
				retention := jobs.NewHistoryRetention(
					logger.L(),
					hybrid.PG,
					24*time.Hour, // one sweep a day
					90*24*time.Hour,
				)
				go retention.Start(ctx)
			}
		}
	}

	// --- Event publisher (optional) ---
	var nc *nats.Conn
	var pub *publisher.Publisher
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Warnw("nats unavailable, events disabled", "error", err)
		} else {
			pub, err = publisher.New(logger.L(), nc, cfg.ServiceName)
			if err != nil {
				logg.Warnw("publisher init failed, events disabled", "error", err)
				pub = nil
			}
		}
	}

	// --- Controller ---
	deps := tracker.Deps{
		Logger:  logger.L(),
		Fetcher: client,
		Cache:   tracker.NewSnapshotCache(),
		Saver:   settingsStore,
	}
	if st != nil {
		deps.Archive = st
	}
	if pub != nil {
		deps.Bus = pub
	}
	ctrl := tracker.NewController(deps, userSettings)

	// --- Warm start from the Redis mirror ---
	if st != nil {
		warmCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		snaps, err := st.LoadSnapshots(warmCtx)
		cancel()
		if err != nil {
			logg.Warnw("warm start failed", "error", err)
		} else if len(snaps) > 0 {
			ctrl.WarmStart(snaps)
			logg.Infow("warm start", "snapshots", len(snaps))
		}
	}

	// --- Ops surface (optional) ---
	var opsServer *ops.Server
	if cfg.OpsPort > 0 {
		opsServer = ops.New(logger.L(), cfg.OpsPort, nc, st)
		opsServer.Start()
	}

	// --- Terminal loop ---
	dashboard := app.New(logger.L(), ctrl, client)
	if err := dashboard.Run(ctx); err != nil && ctx.Err() == nil {
		logg.Errorw("dashboard exited", "error", err)
	}

	stop()
	logg.Info("shutting down [exile-tracker]...")
	shutdown(ctrl, st, pub, opsServer)
}

// shutdown persists state and releases collaborators. The cache mirror runs
// last-writes so a restart inside the TTL window starts warm.
func shutdown(ctrl *tracker.Controller, st store.Store, pub *publisher.Publisher, opsServer *ops.Server) {
	logg := logger.S()
	ctrl.Persist()

	if st != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ttl := ctrl.Settings().RefreshInterval()
		for _, snap := range ctrl.Cache().Items() {
			if err := st.SaveSnapshot(shutdownCtx, snap, ttl); err != nil {
				logg.Warnw("snapshot mirror failed", "error", err)
			}
		}
	}
	if pub != nil {
		pub.Drain()
	}
	if opsServer != nil {
		_ = opsServer.Shutdown()
	}
}

// applyFlags overlays command line arguments on the persisted settings.
func applyFlags(s settings.Settings, league, category, game string, limit, interval int) settings.Settings {
	if league != "" {
		s.League = league
	}
	if category != "" {
		s.Category = category
	}
	if game != "" {
		s.Game = model.Game(game)
	}
	if limit > 0 {
		s.Limit = limit
	}
	if interval > 0 {
		s.Interval = interval
	}
	return settings.Sanitize(s)
}
