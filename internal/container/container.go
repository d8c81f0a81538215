package container

import (
	"log/slog"

	"github.com/joshua-takyi/ticketing/internal/cache"
	"github.com/joshua-takyi/ticketing/internal/config"
	"github.com/joshua-takyi/ticketing/internal/helpers"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	MongoDBClient  *mongo.Client
	Repo           *models.MongodbRepo
	TokenValidator *helpers.TokenValidator

	UserService      *services.UserService
	EventService     *services.EventService
	CardService      *services.CardService
	PaymentValidator services.PaymentValidator
	TicketService    *services.TicketService
	QRService        *services.QRService
	CheckInService   *services.CheckInService
	ReviewService    *services.ReviewService
}

// NewContainer creates a new dependency injection container. redisClient may
// be nil, in which case QR payloads are not cached.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
	tokenValidator *helpers.TokenValidator,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	var qrCache cache.QRCache = cache.NoopQRCache{}
	if redisClient != nil {
		qrCache = cache.NewRedisQRCache(redisClient, cfg.QRCacheTTL)
	}

	digester := services.NewCardDigester(cfg.CardPepper)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		MongoDBClient:  mongoDBClient,
		Repo:           repo,
		TokenValidator: tokenValidator,

		UserService:      services.NewUserService(repo),
		EventService:     services.NewEventService(repo, logger),
		CardService:      services.NewCardService(repo, digester, logger),
		PaymentValidator: services.NewCardValidator(repo, digester, logger),
		TicketService:    services.NewTicketService(repo, repo, logger),
		QRService:        services.NewQRService(repo, repo, qrCache, cfg.QRSize, logger),
		CheckInService:   services.NewCheckInService(repo, logger),
		ReviewService:    services.NewReviewService(repo, repo),
	}
}
