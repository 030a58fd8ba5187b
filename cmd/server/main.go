package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/config"
	"boutique_back_end/internal/database"
	carthandler "boutique_back_end/internal/handlers/cart"
	"boutique_back_end/internal/handlers/product"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/routes"
	"boutique_back_end/internal/services"
	"boutique_back_end/internal/store"
	"boutique_back_end/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := openProductStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Échec initialisation du store produits: %v", err)
	}

	minioClient, err := database.ConnectMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("❌ Erreur connexion MinIO: %v", err)
	}
	blobs := services.NewMinioBlobStore(minioClient, cfg.MinIO.Bucket, cfg.MinIO.BaseURL())

	var (
		redisClient  *redis.Client
		productCache cache.Store
		cartRepo     cart.Repository
		cartNotifier cart.Notifier
		limiter      middleware.Counter
	)
	if cfg.Redis.Enabled() {
		redisClient, err = database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("❌ Erreur connexion Redis: %v", err)
		}
		productCache = cache.NewRedisCache(redisClient)
		cartRepo = cart.NewRedisRepository(redisClient, cfg.CartTTL)
		cartNotifier = cart.NewRedisNotifier(redisClient)
		limiter = middleware.NewRedisCounter(redisClient)
	} else {
		log.Println("⚠️ REDIS_ADDR vide : cache et paniers en mémoire")
		productCache = cache.NewMemoryCache()
		cartRepo = cart.NewMemoryRepository()
		cartNotifier = cart.NewMemoryNotifier()
		limiter = middleware.NewMemoryCounter()
	}

	cached := cache.NewCachedProducts(products, productCache, cfg.ProductCacheTTL)
	productService := services.NewProductService(cached, validation.NewProductValidator(), services.NewImageManager(blobs, nil))
	cartService := cart.NewService(cartRepo, cartNotifier, cached)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	routes.RegisterRoutes(r, routes.Handlers{
		Products:      product.NewHandler(productService),
		Cart:          carthandler.NewHandler(cartService, cfg.CartTTL),
		Limiter:       limiter,
		DocumentStore: cfg.DocumentStore,
	}, cfg.CORSAllowOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("🚀 Serveur boutique lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur arrêté: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Arrêt du serveur...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
	if err := cached.Close(shutdownCtx); err != nil {
		log.Printf("⚠️ Fermeture du store: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	log.Println("✅ Serveur arrêté proprement")
}

func openProductStore(ctx context.Context, cfg *config.Config) (store.ProductStore, error) {
	switch cfg.DocumentStore {
	case config.StoreScylla:
		session, err := database.ConnectScylla(cfg.Scylla)
		if err != nil {
			return nil, err
		}
		return store.NewScyllaStore(session)
	case config.StoreMemory:
		log.Println("⚠️ Store produits en mémoire : rien n'est persisté")
		return store.NewMemoryStore(), nil
	default:
		client, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(ctx, client, cfg.Mongo.Database)
	}
}
