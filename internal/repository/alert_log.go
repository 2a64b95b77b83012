package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studysphere-alert/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertLogRepository 発報履歴リポジトリ（alert_events テーブル）
type AlertLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertLogRepository リポジトリを作る
func NewAlertLogRepository(db *sql.DB, logger *zap.Logger) *AlertLogRepository {
	return &AlertLogRepository{
		db:     db,
		logger: logger,
	}
}

// AlertEventRow alert_events の1行
type AlertEventRow struct {
	EventID     string
	SatelliteID string
	Family      string // daily_record / weekly_record / monthly_record / support_plan
	UserID      string
	UserName    string
	Payload     []byte // JSONB
	RaisedAt    time.Time
}

// InsertAlerts 評価パスで発報されたアラートを一括で記録する
// 1件の失敗はログに残して続行する（履歴の欠落はアラート表示には影響しない）
func (r *AlertLogRepository) InsertAlerts(satelliteID string, state *models.AlertState) error {
	raisedAt := time.Unix(state.GeneratedAt, 0)

	insert := func(family, userID, userName string, payload interface{}) {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			r.logger.Error("Failed to marshal alert payload",
				zap.String("family", family),
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return
		}
		if err := r.insertEvent(AlertEventRow{
			EventID:     uuid.NewString(),
			SatelliteID: satelliteID,
			Family:      family,
			UserID:      userID,
			UserName:    userName,
			Payload:     payloadJSON,
			RaisedAt:    raisedAt,
		}); err != nil {
			r.logger.Error("Failed to insert alert event",
				zap.String("family", family),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	for _, a := range state.DailyRecord {
		insert("daily_record", a.UserID, a.UserName, a)
	}
	for _, a := range state.WeeklyRecord {
		insert("weekly_record", a.UserID, a.UserName, a)
	}
	for _, a := range state.MonthlyRecord {
		insert("monthly_record", a.UserID, a.UserName, a)
	}
	for _, a := range state.SupportPlan {
		insert("support_plan", a.UserID, a.UserName, a)
	}

	return nil
}

func (r *AlertLogRepository) insertEvent(row AlertEventRow) error {
	query := `
		INSERT INTO alert_events (
			event_id, satellite_id, family, user_id, user_name, payload, raised_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query,
		row.EventID,
		row.SatelliteID,
		row.Family,
		row.UserID,
		row.UserName,
		row.Payload,
		row.RaisedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert event: %w", err)
	}
	return nil
}

// RecentAlerts 拠点の直近の発報履歴を新しい順に返す
func (r *AlertLogRepository) RecentAlerts(satelliteID string, limit int) ([]AlertEventRow, error) {
	query := `
		SELECT event_id, satellite_id, family, user_id, user_name, payload, raised_at
		FROM alert_events
		WHERE satellite_id = $1
		ORDER BY raised_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, satelliteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var events []AlertEventRow
	for rows.Next() {
		var ev AlertEventRow
		if err := rows.Scan(
			&ev.EventID,
			&ev.SatelliteID,
			&ev.Family,
			&ev.UserID,
			&ev.UserName,
			&ev.Payload,
			&ev.RaisedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alert events: %w", err)
	}

	return events, nil
}
