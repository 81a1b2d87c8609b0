package wire

import (
	"Petrel/internal/api"
	"Petrel/internal/api/config"
	"Petrel/internal/api/handler"
	"Petrel/internal/cache"
	"Petrel/internal/federation"
	"Petrel/internal/job"
	"Petrel/internal/pkg/cron"
	"Petrel/internal/pkg/es"
	"Petrel/internal/pkg/kafka"
	"Petrel/internal/repository"
	"Petrel/internal/service"
	"Petrel/internal/store"
	"Petrel/internal/timeline"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer bundles every top-level component the process runs.
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     kafka.TaskProducer
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	followingRepo := repository.NewFollowingRepo(db)
	relationshipRepo := repository.NewRelationshipRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	noteAuxRepo := repository.NewNoteAuxRepo(db)

	caches := cache.NewRelationshipCaches(followingRepo, relationshipRepo, userRepo, profileRepo)
	pipeline := timeline.NewPipeline(caches)

	noteStore := store.SelectBackend(cfg, db)
	noteES := es.NewNoteRepo(es.Client)

	producer, err := kafka.NewTaskProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	deliverer := federation.NewDeliverer(cfg.Federation, userRepo, followingRepo)

	noteService := service.NewNoteService(noteStore, userRepo, noteAuxRepo, noteES, producer, deliverer)
	timelineService := service.NewTimelineService(noteStore, pipeline, noteES)

	handlers := &api.HandlersGroup{
		NoteHandler:     handler.NewNoteHandler(noteService, timelineService),
		TimelineHandler: handler.NewTimelineHandler(timelineService),
		StreamHandler:   handler.NewStreamHandler(),
	}

	router := api.SetupRouter(handlers)

	fanoutHandler := kafka.NewFanoutHandler(noteStore, followingRepo, userRepo)
	kafkaMgr, err := kafka.NewConsumerManager(cfg, fanoutHandler)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewSuspendedRefreshJob(caches))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
	}, nil
}
