package bootstrap

import (
	"context"
	"log"

	"edunotes-be/internal/config"
	"edunotes-be/internal/controller"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/internal/service"
	"edunotes-be/pkg/filestore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const noteEventsTopic = "note_events"

type Container struct {
	// Controllers
	NoteController       controller.INoteController
	SuggestionController controller.ISuggestionController
	AuthController       controller.IAuthController
	AdminController      controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	files, err := filestore.NewLocalFileStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize file store: %v", err)
	}

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		// Suggestion lookups degrade to direct DB queries without Redis.
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	metaCache := gocache.New(gocache.NoExpiration, 0)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, noteEventsTopic, sysLogger)
	suggestionService := service.NewSuggestionService(uowFactory, rdb, sysLogger)
	consumerService := service.NewConsumerService(pubSub, noteEventsTopic, suggestionService, sysLogger)

	metaService := service.NewMetaService(metaCache)
	noteService := service.NewNoteService(uowFactory, publisherService, files, cfg, sysLogger)
	authService := service.NewAuthService(uowFactory, cfg)
	adminService := service.NewAdminService(uowFactory, publisherService, sysLogger)

	// 5. Controllers
	return &Container{
		NoteController:       controller.NewNoteController(noteService, metaService),
		SuggestionController: controller.NewSuggestionController(suggestionService),
		AuthController:       controller.NewAuthController(authService),
		AdminController:      controller.NewAdminController(adminService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
