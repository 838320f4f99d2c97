package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/handlers"
	"github.com/heritage-atlas/heritage-api/internal/config"
	"github.com/heritage-atlas/heritage-api/internal/database"
	galleryhandler "github.com/heritage-atlas/heritage-api/internal/gallery/handler"
	galleryrepo "github.com/heritage-atlas/heritage-api/internal/gallery/repository"
	gallerysvc "github.com/heritage-atlas/heritage-api/internal/gallery/service"
	"github.com/heritage-atlas/heritage-api/internal/media"
	monumenthandler "github.com/heritage-atlas/heritage-api/internal/monument/handler"
	monumentrepo "github.com/heritage-atlas/heritage-api/internal/monument/repository"
	monumentsvc "github.com/heritage-atlas/heritage-api/internal/monument/service"
	"github.com/heritage-atlas/heritage-api/internal/oidc"
	"github.com/heritage-atlas/heritage-api/internal/public"
	"github.com/heritage-atlas/heritage-api/internal/sessions"
	"github.com/heritage-atlas/heritage-api/internal/storage"
	"github.com/heritage-atlas/heritage-api/internal/tokens"
	"github.com/heritage-atlas/heritage-api/internal/users"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
	"github.com/heritage-atlas/heritage-api/pkg/metrics"
	"github.com/heritage-atlas/heritage-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// backends are the external stores; nil fields fall back to in-memory implementations.
type backends struct {
	redis *redis.Client
	db    *mongo.Database
	store storage.Storage
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		if cfg.IsProduction() {
			logger.Fatalf("JWT_SECRET is required in production")
		}
		cfg.JWT.Secret = randomSecret()
		logger.Warnf("JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, cleanup, err := connect(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}
	defer cleanup()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r, err := newRouter(ctx, cfg, b)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting heritage API on %s (storage=%s mongo=%v redis=%v)", addr, cfg.Storage.Driver, b.db != nil, b.redis != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// connect opens Redis, MongoDB and object storage. Redis and MongoDB are optional.
func connect(ctx context.Context, cfg *config.Config) (backends, func(), error) {
	var b backends
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = client.Close()
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			b.redis = client
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			cleanup()
			return b, nil, err
		}
		b.db = client.Database(cfg.MongoDB.Database)
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
	} else {
		logger.Warnf("MONGODB_URI not set; records are kept in memory and lost on restart")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		cleanup()
		return b, nil, fmt.Errorf("object storage: %w", err)
	}
	b.store = store
	return b, cleanup, nil
}

func newRouter(ctx context.Context, cfg *config.Config, b backends) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && b.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(b.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var (
		monuments monumentrepo.Repository = monumentrepo.NewMemoryRepo()
		galleries galleryrepo.Repository  = galleryrepo.NewMemoryRepo()
		userRepo  users.UserRepository    = users.NewMemoryUserRepository()
		sessRepo  sessions.Repository     = sessions.NewMemoryRepository()
		blacklist sessions.Blacklist      = sessions.NewMemoryBlacklist()
	)
	if b.db != nil {
		var err error
		if monuments, err = monumentrepo.NewMongoRepo(ctx, b.db.Collection(database.MonumentsCollection)); err != nil {
			return nil, fmt.Errorf("monuments repository: %w", err)
		}
		if galleries, err = galleryrepo.NewMongoRepo(ctx, b.db.Collection(database.GalleriesCollection)); err != nil {
			return nil, fmt.Errorf("galleries repository: %w", err)
		}
		if userRepo, err = users.NewMongoUserRepository(ctx, b.db.Collection(database.UsersCollection)); err != nil {
			return nil, fmt.Errorf("users repository: %w", err)
		}
		if sessRepo, err = sessions.NewMongoRepository(ctx, b.db.Collection(database.SessionsCollection)); err != nil {
			return nil, fmt.Errorf("sessions repository: %w", err)
		}
	}
	if b.redis != nil {
		sessRepo = sessions.NewRedisRepository(b.redis, "session:")
		blacklist = sessions.NewRedisBlacklist(b.redis)
	}

	issuer, err := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	var verifier middleware.Verifier = issuer
	oidcEnabled := false
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier, accepting local tokens only: %v", err)
		} else {
			verifier = middleware.AnyVerifier(ver, issuer)
			oidcEnabled = true
		}
	}

	userSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessRepo)
	gallerySvc := gallerysvc.NewService(galleries, monuments, b.store, media.NewCompressor(cfg.Media.ImageQuality), cfg.Media.URLTTL)
	monumentSvc := monumentsvc.NewService(monuments, gallerySvc, cfg.Monuments.CascadeDelete)
	publicSvc := public.NewService(monuments, userSvc, gallerySvc, monumentSvc)

	protected := []gin.HandlerFunc{middleware.AuthMiddleware(verifier, blacklist)}
	if oidcEnabled {
		protected = append(protected, handlers.ProvisionUsers(userSvc))
	}
	maxUpload := cfg.Media.MaxUploadMB << 20

	public.RegisterRoutes(r.Group("/public"), publicSvc)
	galleryhandler.RegisterRoutes(r.Group("/gallery", protected...), gallerySvc, maxUpload)
	monumenthandler.RegisterRoutes(r.Group("/monuments", protected...), monumentSvc, maxUpload)
	handlers.NewAuthHandler(userSvc, sessionsSvc, issuer, blacklist, cfg.JWT.RefreshTokenTTL).
		Register(r.Group("/"), protected...)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(b))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r, nil
}

// readiness returns 200 only when every configured dependency answers.
func readiness(b backends) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"storage": b.store != nil}
		if b.db != nil {
			deps["mongo"] = b.db.Client().Ping(ctx, nil) == nil
		}
		if b.redis != nil {
			deps["redis"] = b.redis.Ping(ctx).Err() == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	}
}

// cors allows the browser frontend on any origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Fatalf("generate secret: %v", err)
	}
	return hex.EncodeToString(b)
}
