package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/job-portal/config"
	"github.com/oksasatya/job-portal/internal/application"
	"github.com/oksasatya/job-portal/internal/domain/media"
	"github.com/oksasatya/job-portal/internal/infrastructure/redisstore"
	"github.com/oksasatya/job-portal/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client
	uploader    media.Uploader

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher
	cookies    *helpers.Manager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)          { cfg = c }
func GetConfig() *config.Config           { return cfg }
func SetLogger(l *logrus.Logger)          { logger = l }
func GetLogger() *logrus.Logger           { return logger }
func SetMongo(db *mongo.Database)         { mongoDB = db }
func GetMongo() *mongo.Database           { return mongoDB }
func SetRedis(r *redis.Client)            { redisClient = r }
func GetRedis() *redis.Client             { return redisClient }
func SetUploader(u media.Uploader)        { uploader = u }
func GetUploader() media.Uploader         { return uploader }
func SetJWT(m *helpers.JWTManager)        { jwtManager = m }
func GetJWT() *helpers.JWTManager         { return jwtManager }
func SetHasher(h *helpers.PasswordHasher) { hasher = h }
func GetHasher() *helpers.PasswordHasher {
	if hasher != nil {
		return hasher
	}
	return helpers.NewPasswordHasher(cfg.BcryptCost)
}
func SetCookies(m *helpers.Manager) { cookies = m }
func GetCookies() *helpers.Manager {
	if cookies != nil {
		return cookies
	}
	return helpers.NewCookie(cfg.CookieName, cfg.CookieDomain, cfg.IsProduction())
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// GetDenylist is nil when Redis is not configured.
func GetDenylist() application.TokenDenylist {
	if redisClient == nil {
		return nil
	}
	return redisstore.NewDenylist(redisClient)
}

// GetEmailPublisher is nil when RabbitMQ is not connected.
func GetEmailPublisher() application.EmailPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}

// GetProfileCache is nil when Redis is not configured.
func GetProfileCache() application.ProfileCache {
	if redisClient == nil {
		return nil
	}
	return redisstore.NewProfileCache(redisClient, cfg.ProfileCacheTTL, logger)
}
