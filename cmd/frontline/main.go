// Frontline grants temporary VIP on a game server. Users link their chat
// identity to a player id; grants go to the server's HTTP admin API first
// and fall back to the binary RCON console.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/frontline-pass/frontline/internal/api"
	"github.com/frontline-pass/frontline/internal/cli"
	"github.com/frontline-pass/frontline/internal/config"
	"github.com/frontline-pass/frontline/internal/connector"
	"github.com/frontline-pass/frontline/internal/db"
	"github.com/frontline-pass/frontline/internal/directory"
	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/health"
	"github.com/frontline-pass/frontline/internal/telemetry"
	"github.com/frontline-pass/frontline/internal/util"
	"github.com/frontline-pass/frontline/internal/vip"
)

const defaultEnvFile = ".env"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := util.InitLogger(util.DefaultLogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(version, load)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(envFile string) (*config.Config, error) {
	switch envFile {
	case "":
		return config.FromEnv()
	case defaultEnvFile:
		return config.Load()
	default:
		return config.LoadFile(envFile)
	}
}

// load wires every component from the environment. The returned Close
// drains the event bus and releases the store and directory connections.
func load(ctx context.Context, envFile string) (*cli.Services, error) {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return nil, err
	}

	if err := util.InitLogger(cfg.Log); err != nil {
		log.Warn().Err(err).Msg("failed to reconfigure logger, using defaults")
	}

	store, err := db.Open(cfg.DatabasePath, cfg.DatabaseTable)
	if err != nil {
		return nil, err
	}
	closers := []func() error{store.Close}

	bus := events.NewEventBus()
	notifier := connector.NewModerationNotifier(cfg.ModerationWebhookURL, cfg.ModeratorRoleID, bus, nil)
	if !notifier.Enabled() {
		log.Info().Msg("moderation webhook not configured, duplicate registrations are only logged")
	}

	var (
		gateway  vip.HTTPGateway
		searcher vip.PlayerSearcher
	)
	if creds := cfg.HTTPCredentials(); creds != nil {
		client := connector.NewVipHTTPClient(*creds, nil)
		gateway = client
		searcher = client
	}

	var (
		playerDir vip.PlayerDirectory
		names     vip.NameLookup
	)
	dir, dirClosers, err := openDirectory(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	closers = append(closers, dirClosers...)
	if dir != nil {
		playerDir = dir
		names = dir
	}

	coordinator := vip.NewCoordinator(vip.DefaultBackends(gateway, cfg.Rcon, vip.DialRcon), playerDir, searcher)
	settings := vip.NewSettings(store, cfg.VipDurationHours)
	service := vip.NewService(coordinator, store, settings, names, bus)
	service.SetLocation(cfg.Timezone)

	reporter := health.NewReporter(store, settings, health.Options{
		Backends:            coordinator.Backends(),
		HTTPConfigured:      gateway != nil,
		RconConfigured:      cfg.Rcon.Host != "",
		DirectoryConfigured: dir != nil,
		DataPath:            cfg.DatabasePath,
		Location:            cfg.Timezone,
	}, bus)

	svc := &cli.Services{
		Vip:     service,
		Players: coordinator,
		Health:  reporter,
	}
	svc.Serve = func(ctx context.Context) error {
		return serve(ctx, cfg, svc, reporter, bus)
	}
	svc.Close = func() error {
		bus.Stop()
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	log.Info().
		Str("version", version).
		Str("platform", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Strs("backends", coordinator.Backends()).
		Str("store", store.Info().Backend).
		Str("store_path", store.Info().Path).
		Msg("frontline initialized")
	return svc, nil
}

// openDirectory connects the player name directory when a database URL is
// configured. A nil directory means lookups and searches are skipped.
func openDirectory(ctx context.Context, cfg *config.Config) (*directory.Directory, []func() error, error) {
	if cfg.CrconDatabaseURL == "" {
		return nil, nil, nil
	}

	source := directory.NewPostgresSource(cfg.CrconDatabaseURL)
	closers := []func() error{source.Close}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := source.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("player directory unreachable, lookups will fail until it recovers")
	}

	var cache directory.Cache
	if cfg.RedisURL != "" {
		redisCache, err := directory.NewRedisCache(cfg.RedisURL)
		if err != nil {
			source.Close()
			return nil, nil, fmt.Errorf("failed to open redis cache: %w", err)
		}
		cache = redisCache
		closers = append(closers, redisCache.Close)
	}

	return directory.New(source, cache, cfg.DirectoryCacheTTL), closers, nil
}

// serve runs the admin API, and MQTT telemetry with its heartbeat when a
// broker is configured, until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, svc *cli.Services, reporter *health.Reporter, bus *events.EventBus) error {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(cfg.API, api.Dependencies{
		Vip:     svc.Vip,
		Players: svc.Players,
		Health:  svc.Health,
		Version: version,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	publisher, err := telemetry.NewMQTTPublisher(cfg.MQTT, bus)
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
		log.Info().Msg("MQTT telemetry disabled")
	case err != nil:
		log.Warn().Err(err).Msg("MQTT telemetry not started")
	default:
		g.Go(func() error {
			if err := publisher.Start(gctx); err != nil {
				log.Error().Err(err).Msg("MQTT telemetry stopped")
			}
			return nil
		})
		g.Go(func() error {
			reporter.Run(gctx, cfg.MQTT.Heartbeat)
			return nil
		})
	}

	log.Info().Str("api", cfg.API.Addr).Msg("frontline running, press Ctrl+C to stop")

	err = g.Wait()
	log.Info().Msg("frontline stopped")
	return err
}
