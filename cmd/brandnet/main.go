// Package main is the entry point for the brandnet publishing server.
// It loads configuration, connects to services, wires the publish flow and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandnet/internal/audio"
	"brandnet/internal/brand"
	"brandnet/internal/cache"
	"brandnet/internal/config"
	"brandnet/internal/crosspost"
	"brandnet/internal/database"
	"brandnet/internal/effect"
	"brandnet/internal/effects"
	"brandnet/internal/handlers"
	"brandnet/internal/memstore"
	"brandnet/internal/middleware"
	"brandnet/internal/newsletter"
	"brandnet/internal/publish"
	"brandnet/internal/router"
	"brandnet/internal/social"
	"brandnet/internal/storage"
	"brandnet/internal/store"
	"brandnet/internal/telemetry"
)

// contentStore is what the content item consumers need from a backend.
type contentStore interface {
	handlers.ItemStore
	handlers.PublishedFinder
	publish.Store
	crosspost.Store
}

type newsletterStore interface {
	newsletter.Store
	handlers.SubscriberStore
}

type effectLogStore interface {
	publish.EffectLog
	handlers.EffectLogReader
}

type pageCache interface {
	handlers.PageCache
	publish.PageCache
}

// backend bundles the stores of one storage driver.
type backend struct {
	content    contentStore
	audio      audio.VersionStore
	newsletter newsletterStore
	social     social.SettingsStore
	effectLog  effectLogStore
	close      func() error
}

func main() {
	// Structured logger, text output.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	shutdownTracing, err := telemetry.Setup(context.Background(), "brandnet", cfg.OTELEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	brands, err := brand.Load(cfg.BrandsFile)
	if err != nil {
		slog.Error("failed to load brand table", "error", err)
		os.Exit(1)
	}

	be, err := openBackend(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer be.close()

	// Page cache in Valkey (optional, public reads go to the store without it).
	var pages pageCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, page cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		pages = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	}

	// Object storage and speech provider for audio (optional).
	var uploader audio.Uploader
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		uploader = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, audio disabled")
	}

	synth, err := audio.NewSynthesizer(cfg.TTSProvider, audio.ProviderConfig{
		APIKey:  cfg.TTSAPIKey,
		Model:   cfg.TTSModel,
		Voice:   cfg.TTSVoice,
		BaseURL: cfg.TTSBaseURL,
	})
	if err != nil {
		slog.Error("failed to initialize speech provider", "error", err)
		os.Exit(1)
	}
	if synth == nil {
		slog.Warn("speech provider not configured, audio disabled", "provider", cfg.TTSProvider)
	}

	trigger := audio.NewTrigger(be.content, be.audio, uploader, synth, brands)
	sender := newsletter.NewSender(be.newsletter, be.content, brands, newsletter.NewMailerFactory(newsletter.Endpoints{
		Resend:   cfg.ResendURL,
		SendGrid: cfg.SendGridURL,
	}))
	auto := newsletter.NewAutoDispatcher(be.newsletter, be.content, sender)
	fanout := social.NewFanout(be.social, be.content, brands, social.DefaultPosters(social.Endpoints{
		Twitter:  cfg.TwitterURL,
		Facebook: cfg.FacebookURL,
	}))

	// Effects run in-process unless a dedicated effects instance is set.
	var dispatcher effects.Dispatcher = effects.NewLocal(trigger, auto, fanout)
	if cfg.EffectsBaseURL != "" {
		dispatcher = effects.NewClient(cfg.EffectsBaseURL, cfg.EffectsToken, cfg.EffectsTimeout)
		slog.Info("effects dispatched remotely", "base_url", cfg.EffectsBaseURL)
	}

	runner := effect.NewRunner(cfg.RunnerWorkers, cfg.RunnerQueueSize)

	deps := publish.Deps{
		Store:      be.content,
		Replicator: crosspost.New(be.content, brands, cfg.CrossPostConcurrency),
		Effects:    dispatcher,
		Runner:     runner,
		Brands:     brands,
		EffectLog:  be.effectLog,
		PageCache:  pages,
	}
	orch := publish.New(deps)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer rateLimiter.Stop()

	r := router.New(
		handlers.NewItems(be.content, orch, be.effectLog),
		handlers.NewEffects(trigger, auto, sender, fanout),
		handlers.NewPublic(be.content, be.newsletter, pages),
		cfg.APITokenHash,
		rateLimiter,
	)

	// WriteTimeout must cover the synchronous effect endpoints, which wait
	// on speech synthesis and newsletter delivery.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.EffectsTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Let queued effects finish within the same deadline.
	if err := runner.Close(ctx); err != nil {
		slog.Warn("effects still running at shutdown", "error", err)
	}

	if err := shutdownTracing(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}

	slog.Info("server stopped gracefully")
}

// openBackend connects the configured storage driver.
func openBackend(cfg *config.Config) (*backend, error) {
	if cfg.StoreDriver == config.StoreMemory {
		s := memstore.New()
		if err := s.SeedDefaults(context.Background()); err != nil {
			return nil, err
		}
		slog.Warn("using the in-memory store, data is lost on restart")
		return &backend{
			content:    s,
			audio:      s,
			newsletter: s,
			social:     s.Social(),
			effectLog:  s,
			close:      func() error { return nil },
		}, nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := prepare(db, cfg.IsDev()); err != nil {
		db.Close()
		return nil, err
	}
	return &backend{
		content:    store.NewContentStore(db),
		audio:      store.NewAudioStore(db),
		newsletter: store.NewNewsletterStore(db),
		social:     store.NewSocialStore(db),
		effectLog:  store.NewEffectLogStore(db),
		close:      db.Close,
	}, nil
}

// prepare runs pending migrations and seeds development defaults.
func prepare(db *sql.DB, dev bool) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	if dev {
		return database.Seed(db)
	}
	return nil
}
