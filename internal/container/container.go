// Package container builds the application graph once at startup and hands
// it to the router. Nothing in it is global.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/database"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/geocoder"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/storage"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

// Infra holds the external connections. Optional ones are nil when not configured.
type Infra struct {
	DB        *database.DB
	Redis     *redis.Client
	Blobs     storage.BlobStore
	Notifier  mailer.Notifier
	Publisher *helpers.RabbitPublisher
	ES        *elasticsearch.Client
	Search    search.Index
	Geocoder  geocoder.Geocoder
}

type Container struct {
	Infra

	Cfg     *config.Config
	Logger  *logrus.Logger
	JWT     *helpers.JWTManager
	Hasher  *helpers.PasswordHasher
	Cookies *helpers.Manager

	Auth      *application.AuthService
	Users     *application.UserService
	Bootcamps *application.BootcampService
	Courses   *application.CourseService
}

// New connects every configured backend and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	var in Infra
	fail := func(err error) (*Container, error) {
		_ = in.close()
		return nil, err
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fail(fmt.Errorf("database: %w", err))
	}
	in.DB = db

	if cfg.RedisAddr != "" {
		in.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := in.Redis.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting and logout revocation degrade")
		}
	}

	if in.Blobs, err = storage.New(ctx, cfg); err != nil {
		return fail(fmt.Errorf("storage: %w", err))
	}

	switch cfg.Notifier {
	case "mailgun":
		in.Notifier = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	case "queue":
		if in.Publisher, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue); err != nil {
			return fail(fmt.Errorf("rabbitmq: %w", err))
		}
		in.Notifier = mailer.NewQueueNotifier(in.Publisher)
	default:
		in.Notifier = mailer.NewLogNotifier(logger)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if in.ES, err = helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass); err != nil {
			return fail(fmt.Errorf("elasticsearch: %w", err))
		}
		if err := helpers.PingES(ctx, in.ES); err != nil {
			logger.WithError(err).Warn("elasticsearch unreachable; bootcamp indexing will be retried per write")
		}
		in.Search = search.NewESIndex(in.ES, cfg.ESBootcampsIndex, logger)
	}

	if cfg.GeocoderAPIKey != "" {
		in.Geocoder = geocoder.NewMapQuest(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, in.Redis, logger)
	}

	return Build(cfg, logger, in), nil
}

// Build wires services over already opened infrastructure.
func Build(cfg *config.Config, logger *logrus.Logger, in Infra) *Container {
	if in.Search == nil {
		in.Search = search.Noop{}
	}
	if in.Notifier == nil {
		in.Notifier = mailer.NewLogNotifier(logger)
	}

	c := &Container{
		Infra:   in,
		Cfg:     cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpire),
		Hasher:  helpers.NewPasswordHasher(cfg.BcryptCost),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.SecureCookies(), cfg.CookieExpire()),
	}

	userRepo := database.NewUserRepository(in.DB.Gorm)
	bootcampRepo := database.NewBootcampRepository(in.DB.Gorm)
	courseRepo := database.NewCourseRepository(in.DB.Gorm)

	var revoker application.TokenRevoker
	if in.Redis != nil {
		revoker = application.NewRedisRevoker(in.Redis)
	}

	c.Auth = application.NewAuthService(userRepo, c.JWT, c.Hasher, revoker, in.Notifier, cfg, logger)
	c.Users = application.NewUserService(userRepo, c.Hasher, logger)
	c.Bootcamps = application.NewBootcampService(bootcampRepo, in.Geocoder, in.Blobs, in.Search, cfg.MaxFileUpload, logger)
	c.Courses = application.NewCourseService(courseRepo, bootcampRepo, logger)
	return c
}

// Close releases every connection the container opened.
func (c *Container) Close() error {
	return c.Infra.close()
}

func (in *Infra) close() error {
	var errs []error
	if in.Publisher != nil {
		errs = append(errs, in.Publisher.Close())
	}
	if in.Blobs != nil {
		errs = append(errs, in.Blobs.Close())
	}
	if in.Redis != nil {
		errs = append(errs, in.Redis.Close())
	}
	if in.DB != nil {
		errs = append(errs, in.DB.Close())
	}
	return errors.Join(errs...)
}
