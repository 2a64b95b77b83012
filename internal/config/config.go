package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 接続文字列を組み立てる
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis設定
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config アラートエンジンの設定
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	// バックエンド（管理コンソール API）への接続設定
	API struct {
		BaseURL    string
		APIKey     string
		TimeoutSec int // リクエストタイムアウト（秒）
	}

	// アラートエンジン特有の設定
	Alert struct {
		// 対象の拠点（サテライト）ID
		SatelliteID string

		// 評価パスのトリガー方式
		// 選択肢：polling（定期実行）、events（Redis Streams の更新通知駆動）
		TriggerMode string

		// ポーリング設定
		Polling struct {
			Interval int // 実行間隔（秒）
		}

		// 1パスあたりのフェッチ全体のタイムアウト（秒）
		PassTimeoutSec int

		// Redis Streams 設定（更新通知の受信用）
		EventStream   string // 例 "studysphere:refresh"
		ConsumerGroup string // 例 "alert-engine-group"
		ConsumerName  string // 例 "alert-engine-1"
		BatchSize     int    // 1回に読むメッセージ数

		// アラート状態キャッシュ設定
		Cache struct {
			Enabled   bool
			KeyPrefix string // 例 "studysphere:satellite:"
			Suffix    string // 例 ":alerts"
			TTL       int    // TTL（秒）
		}

		// 発報履歴の永続化
		Persist struct {
			Enabled bool
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 環境変数から設定を読み込む
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "studysphere")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.API.BaseURL = getEnv("API_BASE_URL", "http://localhost:8080")
	cfg.API.APIKey = getEnv("API_KEY", "")
	cfg.API.TimeoutSec = getEnvInt("API_TIMEOUT", 30)

	cfg.Alert.SatelliteID = getEnv("SATELLITE_ID", "")
	cfg.Alert.TriggerMode = getEnv("ALERT_TRIGGER_MODE", "polling")
	cfg.Alert.Polling.Interval = getEnvInt("ALERT_POLL_INTERVAL", 60)
	cfg.Alert.PassTimeoutSec = getEnvInt("ALERT_PASS_TIMEOUT", 30)

	cfg.Alert.EventStream = getEnv("ALERT_EVENT_STREAM", "studysphere:refresh")
	cfg.Alert.ConsumerGroup = getEnv("ALERT_CONSUMER_GROUP", "alert-engine-group")
	cfg.Alert.ConsumerName = getEnv("ALERT_CONSUMER_NAME", "alert-engine-1")
	cfg.Alert.BatchSize = getEnvInt("ALERT_BATCH_SIZE", 10)

	cfg.Alert.Cache.Enabled = getEnv("ALERT_CACHE_ENABLED", "true") == "true"
	cfg.Alert.Cache.KeyPrefix = getEnv("ALERT_CACHE_PREFIX", "studysphere:satellite:")
	cfg.Alert.Cache.Suffix = ":alerts"
	cfg.Alert.Cache.TTL = getEnvInt("ALERT_CACHE_TTL", 300)

	cfg.Alert.Persist.Enabled = getEnv("ALERT_PERSIST_ENABLED", "true") == "true"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
