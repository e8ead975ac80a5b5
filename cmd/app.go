package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskflow.com/taskflow/internal/assistant"
	"taskflow.com/taskflow/internal/board"
	"taskflow.com/taskflow/internal/cache"
	config "taskflow.com/taskflow/internal/configs"
	"taskflow.com/taskflow/internal/feed"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/internal/services"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg    config.Config
	logger *log.Logger
	db     *gorm.DB
	redis  rueidis.Client
	hub    *feed.Hub

	teams    *services.TeamService
	tasks    *services.TaskService
	handoffs *services.HandoffService
	streaks  *services.StreakService
	chat     *services.ChatService
	users    *services.UserService
	pool     *services.StreakPool
	gateway  *services.BoardGateway
}

func loadConfig() (config.Config, *log.Logger) {
	envErr := godotenv.Load(envFile)
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFile)
	if envErr != nil {
		logger.WithField("file", envFile).Debug("env file not found, using environment variables")
	}
	return cfg, logger
}

func newApp(cfg config.Config, logger *log.Logger) (*app, error) {
	loc, err := time.LoadLocation(cfg.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf("streak timezone: %w", err)
	}
	templates, err := config.LoadBoardTemplates(cfg.BoardTemplatesFile)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     config.NewDatabaseClient(cfg.DatabaseDSN),
		hub:    feed.NewHub(logger, feed.DefaultBuffer),
	}

	var (
		publisher   feed.Publisher = a.hub
		streakCache cache.StreakCache
	)
	if cfg.FeedBackend == config.FeedBackendRedis {
		a.redis = config.NewRedisClient(cfg.RedisAddr)
		publisher = feed.NewRedisPublisher(a.redis, cfg.FeedChannel)
		if cfg.StreakCacheTTL > 0 {
			streakCache = cache.NewRedisStreakCache(a.redis, cache.DefaultKeyPrefix, time.Duration(cfg.StreakCacheTTL)*time.Second)
		}
	}

	teamRepo := repository.NewTeamRepository(a.db)
	taskRepo := repository.NewTaskRepository(a.db)
	remoteTimeout := time.Duration(cfg.RemoteTimeoutSeconds) * time.Second

	a.streaks = services.NewStreakService(taskRepo, repository.NewStreakRepository(a.db), streakCache, loc, logger)
	a.pool = services.NewStreakPool(a.streaks, cfg.StreakWorkers, cfg.StreakQueueSize, remoteTimeout, logger)
	a.teams = services.NewTeamService(teamRepo, templates, publisher, logger)
	a.tasks = services.NewTaskService(taskRepo, teamRepo, publisher, a.pool, logger)
	a.handoffs = services.NewHandoffService(repository.NewHandoffRepository(a.db), publisher, a.pool, logger)
	a.users = services.NewUserService(repository.NewUserRepository(a.db))
	a.gateway = services.NewBoardGateway(a.teams, a.tasks, a.handoffs, a.streaks)

	bot := assistant.NewClient(assistant.Options{
		URL:       cfg.AssistantURL,
		APIKey:    cfg.AssistantAPIKey,
		Model:     cfg.AssistantModel,
		MaxTokens: cfg.AssistantMaxTokens,
		Timeout:   remoteTimeout,
	}, logger)
	a.chat = services.NewChatService(bot, a.teams, a.tasks, logger)

	return a, nil
}

func (a *app) newRegistry() *board.Registry {
	return board.NewRegistry(a.gateway, a.hub, a.logger, board.WithHandoffFirst())
}

// close releases everything newApp opened, in reverse order.
func (a *app) close(ctx context.Context) {
	a.pool.Shutdown(ctx)
	a.hub.Close()
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
