package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/config"
	adminHandler "lovewall-backend/internal/domains/admin/handler"
	coupleHandler "lovewall-backend/internal/domains/couple/handler"
	coupleRepo "lovewall-backend/internal/domains/couple/repository"
	coupleService "lovewall-backend/internal/domains/couple/service"
	paymentGateway "lovewall-backend/internal/domains/payment/gateway"
	paymentMock "lovewall-backend/internal/domains/payment/gateway/mock"
	paymentStripe "lovewall-backend/internal/domains/payment/gateway/stripe"
	paymentHandler "lovewall-backend/internal/domains/payment/handler"
	paymentRepo "lovewall-backend/internal/domains/payment/repository"
	paymentService "lovewall-backend/internal/domains/payment/service"
	"lovewall-backend/internal/infrastructure/broadcast"
	infraCache "lovewall-backend/internal/infrastructure/cache"
	"lovewall-backend/internal/infrastructure/database"
	"lovewall-backend/internal/infrastructure/storage"
	"lovewall-backend/internal/wall"
	"lovewall-backend/pkg/jwt"
)

// =====================================================
// CONTAINER
// =====================================================

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       *infraCache.RedisCache
	Bus         broadcast.Bus
	Storage     *storage.MinIOStorage
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	// Repositories
	CoupleRepo  coupleRepo.Repository
	PaymentRepo paymentRepo.Repository

	// Services
	CoupleService  coupleService.Service
	PaymentService paymentService.Service
	WallService    *wall.Service

	// Handlers
	CoupleHandler  *coupleHandler.CoupleHandler
	PaymentHandler *paymentHandler.PaymentHandler
	WallHandler    *wall.Handler
	AuthHandler    *adminHandler.AuthHandler
}

// NewContainer builds the whole graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// Infrastructure
	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	c.Cache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	c.Bus = broadcast.NewRedisBus(c.Cache.Client())

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AdminExpiry)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	c.CoupleRepo = coupleRepo.NewPostgresRepository(c.DB.Pool)
	c.PaymentRepo = paymentRepo.NewPostgresRepository(c.DB.Pool)

	// Services
	gw, err := buildGateway(cfg.Stripe)
	if err != nil {
		return nil, err
	}
	c.PaymentService = paymentService.NewService(c.PaymentRepo, gw)

	c.CoupleService = coupleService.NewService(
		c.CoupleRepo,
		c.Cache,
		storage.NewImageProcessor(),
		c.Storage,
		c.AsynqClient,
		c.Bus,
		c.PaymentService,
		cfg.Couple.ListCacheTTL,
	)

	// The wall renders inside one process; its per-view caches are local
	// memory, kept honest by the broadcast bus.
	c.WallService = wall.NewService(
		c.CoupleService,
		cfg.Wall,
		infraCache.NewMemoryCache(),
		infraCache.NewMemoryCache(),
		infraCache.NewMemoryCache(),
	)

	// Handlers
	c.CoupleHandler = coupleHandler.NewCoupleHandler(c.CoupleService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
	c.WallHandler = wall.NewHandler(c.WallService)
	c.AuthHandler = adminHandler.NewAuthHandler(cfg.Admin, c.JWTManager)

	log.Info().Msg("Container initialized")
	return c, nil
}

func buildGateway(cfg config.StripeConfig) (paymentGateway.CheckoutGateway, error) {
	if cfg.UseMock {
		log.Warn().Msg("Using mock checkout gateway")
		return paymentMock.NewGateway(cfg.SuccessURL), nil
	}

	return paymentStripe.NewClient(&paymentStripe.Config{
		SecretKey:     cfg.SecretKey,
		WebhookSecret: cfg.WebhookSecret,
		APIURL:        cfg.APIURL,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
	})
}

// Close releases every held resource, reverse of init order.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("Container closed")
}
