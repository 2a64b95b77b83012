package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studysphere-alert/internal/aggregator"
	"studysphere-alert/internal/config"
	"studysphere-alert/internal/consumer"
	"studysphere-alert/internal/database"
	"studysphere-alert/internal/fetcher"
	"studysphere-alert/internal/models"
	"studysphere-alert/internal/redisutil"
	"studysphere-alert/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AlertService コンプライアンスアラートエンジンのサービス本体
type AlertService struct {
	config        *config.Config
	logger        *zap.Logger
	db            *sql.DB
	redisClient   *redis.Client
	engine        *Engine
	eventConsumer *consumer.EventConsumer
}

// NewAlertService サービスを組み立てる
func NewAlertService(cfg *config.Config, logger *zap.Logger) (*AlertService, error) {
	if cfg.Alert.SatelliteID == "" {
		return nil, fmt.Errorf("satellite_id is required, please set SATELLITE_ID environment variable")
	}

	apiClient := fetcher.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
		logger,
	)

	// 発報履歴の永続化（有効時のみ）
	var db *sql.DB
	var alertLog *repository.AlertLogRepository
	if cfg.Alert.Persist.Enabled {
		var err error
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		alertLog = repository.NewAlertLogRepository(db, logger)
	}

	// Redis（キャッシュ発行と更新通知の購読に使う）
	var redisClient *redis.Client
	if cfg.Alert.Cache.Enabled || cfg.Alert.TriggerMode == "events" {
		redisClient = redisutil.NewClient(&cfg.Redis)
		if err := redisutil.Ping(context.Background(), redisClient); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	var cache *aggregator.CacheManager
	if cfg.Alert.Cache.Enabled {
		kv := aggregator.NewRedisKVStore(redisClient)
		cache = aggregator.NewCacheManager(cfg, kv, logger)
	}

	store := aggregator.NewStateStore()
	engine := NewEngine(
		apiClient,
		store,
		cache,
		alertLog,
		logger,
		cfg.Alert.SatelliteID,
		time.Duration(cfg.Alert.PassTimeoutSec)*time.Second,
	)

	var eventConsumer *consumer.EventConsumer
	if cfg.Alert.TriggerMode == "events" {
		eventConsumer = consumer.NewEventConsumer(
			redisClient,
			engine,
			logger,
			cfg.Alert.EventStream,
			cfg.Alert.ConsumerGroup,
			cfg.Alert.ConsumerName,
			int64(cfg.Alert.BatchSize),
			cfg.Alert.SatelliteID,
		)
	}

	return &AlertService{
		config:        cfg,
		logger:        logger,
		db:            db,
		redisClient:   redisClient,
		engine:        engine,
		eventConsumer: eventConsumer,
	}, nil
}

// AlertState 表示層に公開するアラート状態（直近に完了したパスの結果）
func (s *AlertService) AlertState() *models.AlertState {
	return s.engine.State()
}

// Start サービスを起動する（ブロッキング）
func (s *AlertService) Start(ctx context.Context) error {
	s.logger.Info("Starting compliance alert engine",
		zap.String("satellite_id", s.config.Alert.SatelliteID),
		zap.String("trigger_mode", s.config.Alert.TriggerMode),
		zap.Bool("cache_enabled", s.config.Alert.Cache.Enabled),
		zap.Bool("persist_enabled", s.config.Alert.Persist.Enabled),
	)

	switch s.config.Alert.TriggerMode {
	case "polling":
		return s.startPollingMode(ctx)
	case "events":
		return s.startEventDrivenMode(ctx)
	default:
		return fmt.Errorf("unsupported trigger mode: %s", s.config.Alert.TriggerMode)
	}
}

// startPollingMode 定期実行モード
func (s *AlertService) startPollingMode(ctx context.Context) error {
	interval := time.Duration(s.config.Alert.Polling.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Starting polling mode",
		zap.Duration("interval", interval),
	)

	// 起動時にまず1回
	if err := s.engine.RunPass(ctx); err != nil {
		s.logger.Error("Failed to run evaluation pass on startup", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.engine.RunPass(ctx); err != nil {
				s.logger.Error("Failed to run evaluation pass", zap.Error(err))
			}
		}
	}
}

// startEventDrivenMode 更新通知駆動モード
func (s *AlertService) startEventDrivenMode(ctx context.Context) error {
	s.logger.Info("Starting event-driven mode")

	// 起動時にまず1回（通知が来るまで空のままにしない）
	if err := s.engine.RunPass(ctx); err != nil {
		s.logger.Error("Failed to run evaluation pass on startup", zap.Error(err))
	}

	if s.eventConsumer == nil {
		return fmt.Errorf("event consumer not initialized")
	}
	return s.eventConsumer.Start(ctx)
}

// Stop サービスを停止する
func (s *AlertService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping compliance alert engine")

	if s.redisClient != nil {
		if err := redisutil.Close(s.redisClient); err != nil {
			s.logger.Error("Error closing redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			s.logger.Error("Error closing database connection", zap.Error(err))
		}
	}

	s.logger.Info("Compliance alert engine stopped")
	return nil
}
