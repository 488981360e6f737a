package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"questbridge-api/cache"
	"questbridge-api/config"
	"questbridge-api/controllers"
	"questbridge-api/database"
	"questbridge-api/logger"
	"questbridge-api/queue"
	"questbridge-api/repositories"
	"questbridge-api/routes"
	"questbridge-api/services"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)

		db, err := database.Initialize(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db, log); err != nil {
				return nil, err
			}
		}
		if cfg.Database.Seed {
			if err := database.SeedData(db, log); err != nil {
				log.Warn("failed to seed database", zap.Error(err))
			}
		}
		return db, nil
	})

	// Redis is optional; a nil client disables the quiz cache.
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if cfg.Redis.Addr == "" {
			return nil, nil
		}
		rdb, err := cache.New(cfg)
		if err != nil {
			log.Warn("redis unavailable, quiz cache disabled", zap.Error(err))
			return nil, nil
		}
		return rdb, nil
	})

	// domain event publisher
	do.Provide(inj, func(i *do.Injector) (services.EventPublisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if cfg.RabbitMQ.URL == "" {
			return services.NewNoopPublisher(), nil
		}
		p, err := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Warn("rabbitmq unavailable, domain events disabled", zap.Error(err))
			return services.NewNoopPublisher(), nil
		}
		return p, nil
	})

	// repositories
	do.Provide(inj, func(i *do.Injector) (repositories.UserRepository, error) {
		return repositories.NewUserRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repositories.EventRepository, error) {
		return repositories.NewEventRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repositories.JoinRequestRepository, error) {
		return repositories.NewJoinRequestRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repositories.EngagementRepository, error) {
		return repositories.NewEngagementRepository(do.MustInvoke[*gorm.DB](i)), nil
	})

	// collaborators
	do.Provide(inj, func(i *do.Injector) (services.Notifier, error) {
		return services.NewEmailService(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.MeetingProvisioner, error) {
		return services.NewZoomClient(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	// services
	do.Provide(inj, func(i *do.Injector) (services.AuthService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return services.NewAuthService(do.MustInvoke[repositories.UserRepository](i), cfg.JWT.Secret, cfg.JWT.TTL), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.EventService, error) {
		return services.NewEventService(
			do.MustInvoke[repositories.EventRepository](i),
			do.MustInvoke[services.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.JoinRequestService, error) {
		return services.NewJoinRequestService(
			do.MustInvoke[repositories.JoinRequestRepository](i),
			do.MustInvoke[repositories.EventRepository](i),
			do.MustInvoke[services.Notifier](i),
			do.MustInvoke[services.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.SessionGate, error) {
		return services.NewSessionGate(
			do.MustInvoke[services.JoinRequestService](i),
			do.MustInvoke[repositories.EventRepository](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.ReportService, error) {
		return services.NewReportService(
			do.MustInvoke[repositories.EventRepository](i),
			do.MustInvoke[repositories.JoinRequestRepository](i),
			do.MustInvoke[repositories.EngagementRepository](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.EngagementService, error) {
		return services.NewEngagementService(
			do.MustInvoke[repositories.EngagementRepository](i),
			do.MustInvoke[services.JoinRequestService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.CampaignService, error) {
		return services.NewCampaignService(
			do.MustInvoke[repositories.EventRepository](i),
			do.MustInvoke[repositories.JoinRequestRepository](i),
			do.MustInvoke[services.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (services.QuizService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		var generator services.QuestionGenerator
		if cfg.Quiz.APIKey != "" {
			generator = services.NewOpenAIQuizGenerator(cfg)
		}
		return services.NewQuizService(generator, do.MustInvoke[*redis.Client](i), cfg.Quiz.CacheTTL, do.MustInvoke[*zap.Logger](i)), nil
	})

	// HTTP controllers
	do.Provide(inj, func(i *do.Injector) (routes.Controllers, error) {
		meetings := do.MustInvoke[services.MeetingProvisioner](i)
		return routes.Controllers{
			Auth: controllers.NewAuthController(do.MustInvoke[services.AuthService](i)),
			Events: controllers.NewEventController(
				do.MustInvoke[services.EventService](i),
				meetings,
				do.MustInvoke[*zap.Logger](i),
			),
			Requests: controllers.NewJoinRequestController(
				do.MustInvoke[services.JoinRequestService](i),
				do.MustInvoke[services.SessionGate](i),
			),
			Reports: controllers.NewReportController(do.MustInvoke[services.ReportService](i)),
			Engagement: controllers.NewEngagementController(
				do.MustInvoke[services.EngagementService](i),
				do.MustInvoke[services.QuizService](i),
			),
			Marketing: controllers.NewMarketingController(do.MustInvoke[services.CampaignService](i)),
			Meetings:  controllers.NewMeetingController(meetings),
		}, nil
	})

	return inj
}
