package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/golang-migrate/migrate/v4"
	mongomigrate "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/oksasatya/job-portal/config"
	"github.com/oksasatya/job-portal/internal/container"
	"github.com/oksasatya/job-portal/internal/domain/media"
	"github.com/oksasatya/job-portal/internal/infrastructure/mongodb"
	"github.com/oksasatya/job-portal/internal/infrastructure/objectstore"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
	"github.com/oksasatya/job-portal/internal/router"
	"github.com/oksasatya/job-portal/pkg/helpers"
	"github.com/oksasatya/job-portal/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB
	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := runMigrations(client, cfg.MongoDatabase, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis is optional: without it logout cannot revoke tokens and rate limits stay per process
	rdb := connectRedis(ctx, cfg, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	uploader, closeMedia, err := newUploader(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init media uploader: %v", err)
	}
	defer closeMedia()

	// Elasticsearch (optional)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			container.SetES(es)
		}
	}

	// RabbitMQ (optional), only needed when emails are sent
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, notification emails disabled")
		} else {
			container.SetRabbitPub(pub)
			defer pub.Close()
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(client.Database(cfg.MongoDatabase))
	container.SetRedis(rdb)
	container.SetUploader(uploader)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, cfg.JWTIssuer))
	container.SetHasher(helpers.NewPasswordHasher(cfg.BcryptCost))
	container.SetCookies(helpers.NewCookie(cfg.CookieName, cfg.CookieDomain, cfg.IsProduction()))

	// Gin engine and global middleware
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}
	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxyList())
	if err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP(trusted))
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(client *mongo.Client, database, migrationsDir string, logger *logrus.Logger) error {
	driver, err := mongomigrate.WithInstance(client, &mongomigrate.Config{DatabaseName: database})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), database, driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

func connectRedis(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Warn("redis disabled")
		return nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, continuing without it")
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// newUploader builds the media relay: storage backend, photo normalization,
// then a circuit breaker in front of both.
func newUploader(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (media.Uploader, func(), error) {
	var backend media.Uploader
	closeFn := func() {}

	switch cfg.MediaBackend {
	case "s3":
		s3u, err := objectstore.NewS3Uploader(ctx, objectstore.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, closeFn, err
		}
		backend = s3u
	case "gcs", "":
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() { _ = gcsClient.Close() }
		backend = objectstore.NewGCSUploader(gcsClient, cfg.GCSBucket)
	default:
		return nil, closeFn, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}

	normalized := objectstore.NewImageNormalizer(backend, cfg.PhotoMaxDimension)
	return objectstore.NewBreakerUploader(normalized, objectstore.BreakerSettings{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
		CallTimeout: cfg.MediaUploadTimeout,
	}, logger), closeFn, nil
}
