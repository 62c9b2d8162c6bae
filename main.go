package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amelia-salon/storefront/configs"
	appadmin "github.com/amelia-salon/storefront/internal/application/admin"
	appcart "github.com/amelia-salon/storefront/internal/application/cart"
	appcatalog "github.com/amelia-salon/storefront/internal/application/catalog"
	appcheckout "github.com/amelia-salon/storefront/internal/application/checkout"
	appinventory "github.com/amelia-salon/storefront/internal/application/inventory"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/infrastructure/bus"
	"github.com/amelia-salon/storefront/internal/infrastructure/cache"
	"github.com/amelia-salon/storefront/internal/infrastructure/id"
	"github.com/amelia-salon/storefront/internal/infrastructure/images"
	"github.com/amelia-salon/storefront/internal/infrastructure/memory"
	mongorepo "github.com/amelia-salon/storefront/internal/infrastructure/mongo"
	"github.com/amelia-salon/storefront/internal/infrastructure/observability/prometrics"
	"github.com/amelia-salon/storefront/internal/infrastructure/stripepay"
	"github.com/amelia-salon/storefront/internal/infrastructure/worker"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
	httptransport "github.com/amelia-salon/storefront/internal/presentation/http"
)

func main() {
	envName := getenvDefault("APP_ENV", "dev")
	cfg, err := configs.Load(getenvDefault("CONFIG_DIR", "configs"), envName)
	if err != nil {
		panic(err)
	}

	logger := logging.MustNewLogger(cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := prometrics.New(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	productRepo, cleanup := buildProductRepo(connectCtx, cfg, logger)
	cancel()
	defer cleanup()

	var catalogCache cache.CatalogCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis_unavailable_cache_disabled", zap.Error(err))
			_ = client.Close()
		} else {
			catalogCache = cache.NewRedisCache(client)
			defer func() { _ = client.Close() }()
		}
	}

	eventBus := bus.New(logger)
	eventBus.Start(context.Background())
	defer eventBus.Stop(context.Background())

	if catalogCache != nil {
		worker.NewCacheInvalidator(eventBus, catalogCache).Start()
	}

	cartStore := memory.NewCartStore(cfg.Cart.TTL)
	defer cartStore.Close()
	checkoutStore := memory.NewCheckoutStore(cfg.Cart.TTL)
	defer checkoutStore.Close()

	var imageStore appadmin.ImageStore
	if cfg.Cloudinary.URL != "" {
		store, err := images.NewStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			logger.Warn("cloudinary_unavailable_uploads_disabled", zap.Error(err))
		} else {
			imageStore = store
		}
	}

	catalogSvc := appcatalog.NewService(productRepo, catalogCache, metrics)
	cartSvc := appcart.NewService(cartStore, productRepo)
	inventorySvc := appinventory.NewService(productRepo, eventBus, metrics)
	checkoutSvc := appcheckout.NewService(
		cartStore,
		checkoutStore,
		productRepo,
		stripepay.New(cfg.Stripe.SecretKey),
		inventorySvc,
		id.NewGenerator(),
		metrics,
	)
	adminSvc := appadmin.NewService(appadmin.Credentials{
		Username:  cfg.Admin.Username,
		Password:  cfg.Admin.Password,
		JWTSecret: cfg.Admin.JWTSecret,
		Issuer:    cfg.Admin.Issuer,
		Audience:  cfg.Admin.Audience,
		TokenTTL:  cfg.Admin.TokenTTL,
	}, productRepo, imageStore, eventBus)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:       logger,
		Metrics:      metrics,
		Registry:     registry,
		Catalog:      httptransport.NewCatalogHandler(catalogSvc),
		Cart:         httptransport.NewCartHandler(cartSvc),
		Checkout:     httptransport.NewCheckoutHandler(checkoutSvc),
		Admin:        httptransport.NewAdminHandler(adminSvc),
		AdminService: adminSvc,
	})

	server := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}

// buildProductRepo connects to MongoDB, falling back to the in-memory
// store for local runs without a database. Seeding only happens when
// the store starts empty.
func buildProductRepo(ctx context.Context, cfg configs.Config, logger *zap.Logger) (domcatalog.Repository, func()) {
	db, err := mongorepo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Warn("mongo_unavailable_using_memory_store", zap.Error(err))
		repo := memory.NewProductRepository()
		if cfg.Seed {
			for _, p := range domcatalog.SeedProducts() {
				product := p
				if _, err := repo.Create(ctx, &product); err != nil {
					logger.Warn("seed_product_failed", zap.String("name", p.Name), zap.Error(err))
				}
			}
		}
		return repo, func() {}
	}

	repo := mongorepo.NewProductRepository(db)
	if cfg.Seed {
		n, err := repo.Seed(ctx)
		if err != nil {
			logger.Warn("catalog_seed_failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("catalog_seeded", zap.Int("products", n))
		}
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}
	return repo, cleanup
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
