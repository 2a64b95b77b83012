// Package consumer 更新通知（Redis Streams）の購読
// 「記録が変わった」系の通知を明示的な購読契約にして、評価のトリガーを分離する
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studysphere-alert/internal/redisutil"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Refresher 通知を受けて評価パスを回すインターフェース
type Refresher interface {
	RunPass(ctx context.Context) error
}

// RefreshEvent 更新通知イベント
type RefreshEvent struct {
	EventType   string `json:"event_type"` // record.changed / student.list_changed / satellite.changed
	SatelliteID string `json:"satellite_id"`
	UserID      string `json:"user_id,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// EventConsumer 更新通知の消費者
type EventConsumer struct {
	redisClient  *redis.Client
	refresher    Refresher
	logger       *zap.Logger
	stream       string
	groupName    string
	consumerName string
	batchSize    int64
	satelliteID  string // 自拠点以外の通知は無視する
}

// NewEventConsumer 消費者を作る
func NewEventConsumer(
	redisClient *redis.Client,
	refresher Refresher,
	logger *zap.Logger,
	stream string,
	groupName string,
	consumerName string,
	batchSize int64,
	satelliteID string,
) *EventConsumer {
	return &EventConsumer{
		redisClient:  redisClient,
		refresher:    refresher,
		logger:       logger,
		stream:       stream,
		groupName:    groupName,
		consumerName: consumerName,
		batchSize:    batchSize,
		satelliteID:  satelliteID,
	}
}

// Start 消費ループを開始する（ブロッキング）
func (c *EventConsumer) Start(ctx context.Context) error {
	if err := redisutil.CreateConsumerGroup(ctx, c.redisClient, c.stream, c.groupName); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Refresh event consumer started",
		zap.String("stream", c.stream),
		zap.String("consumer_group", c.groupName),
		zap.String("consumer_name", c.consumerName),
	)

	// 失敗時は指数バックオフで継続する
	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consumeEvents(ctx); err != nil {
				c.logger.Error("Failed to consume refresh events",
					zap.Error(err),
					zap.Duration("backoff", backoffDuration),
				)

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoffDuration):
					backoffDuration *= 2
					if backoffDuration > maxBackoff {
						backoffDuration = maxBackoff
					}
				}
			} else {
				backoffDuration = time.Second
			}
		}
	}
}

// consumeEvents 1バッチ分のメッセージを処理する
func (c *EventConsumer) consumeEvents(ctx context.Context) error {
	messages, err := redisutil.ReadFromStream(
		ctx,
		c.redisClient,
		c.stream,
		c.groupName,
		c.consumerName,
		c.batchSize,
	)
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, msg := range messages {
		if err := c.processEvent(ctx, msg); err != nil {
			c.logger.Error("Failed to process refresh event",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
			// 次のメッセージへ続行
		} else {
			if err := redisutil.AckMessage(ctx, c.redisClient, c.stream, c.groupName, msg.ID); err != nil {
				c.logger.Warn("Failed to ack message",
					zap.String("message_id", msg.ID),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}

// processEvent 1件の通知を処理する
func (c *EventConsumer) processEvent(ctx context.Context, msg redisutil.StreamMessage) error {
	event, err := parseEvent(msg)
	if err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}

	// 拠点が指定されている通知は自拠点分のみ反応する
	if event.SatelliteID != "" && event.SatelliteID != c.satelliteID {
		return nil
	}

	switch event.EventType {
	case "record.changed", "student.list_changed", "satellite.changed":
		c.logger.Info("Refresh event received, running evaluation pass",
			zap.String("event_type", event.EventType),
			zap.String("satellite_id", event.SatelliteID),
		)
		return c.refresher.RunPass(ctx)

	default:
		c.logger.Warn("Unknown refresh event type",
			zap.String("event_type", event.EventType),
		)
		return nil
	}
}

// parseEvent メッセージから通知イベントを復元する
func parseEvent(msg redisutil.StreamMessage) (*RefreshEvent, error) {
	// data フィールドに JSON が入っている形式を優先
	if dataStr, ok := msg.Values["data"].(string); ok {
		var event RefreshEvent
		if err := json.Unmarshal([]byte(dataStr), &event); err == nil && event.EventType != "" {
			return &event, nil
		}
	}

	// フラットな values からの復元
	event := &RefreshEvent{}
	if eventType, ok := msg.Values["event_type"].(string); ok {
		event.EventType = eventType
	}
	if satelliteID, ok := msg.Values["satellite_id"].(string); ok {
		event.SatelliteID = satelliteID
	}
	if userID, ok := msg.Values["user_id"].(string); ok {
		event.UserID = userID
	}

	if event.EventType == "" {
		return nil, fmt.Errorf("invalid event: missing event_type")
	}
	return event, nil
}
