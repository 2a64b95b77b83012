package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studysphere-alert/internal/config"
	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// CacheManager アラート状態の Redis キャッシュ管理
// 表示層はこのキャッシュを読むだけでよい
type CacheManager struct {
	config *config.Config
	kv     KVStore
	logger *zap.Logger
}

// NewCacheManager キャッシュ管理を作る
func NewCacheManager(cfg *config.Config, kv KVStore, logger *zap.Logger) *CacheManager {
	return &CacheManager{
		config: cfg,
		kv:     kv,
		logger: logger,
	}
}

func (c *CacheManager) key(satelliteID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Alert.Cache.KeyPrefix,
		satelliteID,
		c.config.Alert.Cache.Suffix,
	)
}

// Publish アラート状態を丸ごとキャッシュに書き込む
func (c *CacheManager) Publish(ctx context.Context, satelliteID string, state *models.AlertState) error {
	jsonData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal alert state: %w", err)
	}

	ttl := time.Duration(c.config.Alert.Cache.TTL) * time.Second
	if err := c.kv.Set(ctx, c.key(satelliteID), string(jsonData), ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Published alert state cache",
		zap.String("satellite_id", satelliteID),
		zap.Int("alert_count", state.Total()),
	)
	return nil
}

// Load キャッシュからアラート状態を読む
func (c *CacheManager) Load(ctx context.Context, satelliteID string) (*models.AlertState, error) {
	val, err := c.kv.Get(ctx, c.key(satelliteID))
	if err != nil {
		if err == ErrCacheMiss {
			return nil, fmt.Errorf("alert state not found")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var state models.AlertState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert state: %w", err)
	}
	return &state, nil
}
