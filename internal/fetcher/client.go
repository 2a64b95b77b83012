// Package fetcher 管理コンソール API のクライアント
// ステータス列挙はここで一度だけ型付き（models の閉じた変種）に変換する
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studysphere-alert/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// apiResponse API 共通エンベロープ
type apiResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// evaluationStatusRow 評価状況の生レスポンス（ステータスは生文字列）
type evaluationStatusRow struct {
	UserID               string `json:"user_id"`
	UserName             string `json:"user_name"`
	DailyStatus          string `json:"daily_status"`
	WeeklyStatus         string `json:"weekly_status"`
	MonthlyStatus        string `json:"monthly_status"`
	LastWeeklyPeriodEnd  string `json:"last_weekly_period_end"`
	LastWeeklyRecordDate string `json:"last_weekly_record_date"`
}

// supportPlanRow 個別支援計画状況の生レスポンス
type supportPlanRow struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Status   string `json:"status"`
	GoalDate string `json:"goal_date"`
}

// Client 管理コンソール API クライアント
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient クライアントを作る
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// get エンベロープを剥がして data を out にデコードする
func (c *Client) get(ctx context.Context, path, satelliteID string, out interface{}) error {
	var response apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("satellite_id", satelliteID).
		SetResult(&response).
		Get(path)

	if err != nil {
		return fmt.Errorf("failed to call console API %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("console API %s returned HTTP %d", path, resp.StatusCode())
	}
	if response.Status != 0 {
		return fmt.Errorf("console API error: %s (status: %d)", response.Msg, response.Status)
	}

	if err := json.Unmarshal(response.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// FetchHomeSupportRecords 在宅支援の記録行（利用者 × 日次記録）を取得する
func (c *Client) FetchHomeSupportRecords(ctx context.Context, satelliteID string) ([]models.HomeSupportRow, error) {
	var rows []models.HomeSupportRow
	if err := c.get(ctx, "/home-support/records", satelliteID, &rows); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched home support records",
		zap.String("satellite_id", satelliteID),
		zap.Int("row_count", len(rows)),
	)
	return rows, nil
}

// FetchEvaluationStatus 利用者ごとの評価状況サマリを取得する
func (c *Client) FetchEvaluationStatus(ctx context.Context, satelliteID string) ([]models.EvaluationStatusSummary, error) {
	var raw []evaluationStatusRow
	if err := c.get(ctx, "/home-support/evaluation-status", satelliteID, &raw); err != nil {
		return nil, err
	}

	summaries := make([]models.EvaluationStatusSummary, 0, len(raw))
	for _, r := range raw {
		summaries = append(summaries, models.EvaluationStatusSummary{
			UserID:               r.UserID,
			UserName:             r.UserName,
			DailyStatus:          models.ParseCompletionStatus(r.DailyStatus),
			WeeklyStatus:         models.ParseCompletionStatus(r.WeeklyStatus),
			MonthlyStatus:        models.ParseCompletionStatus(r.MonthlyStatus),
			LastWeeklyPeriodEnd:  r.LastWeeklyPeriodEnd,
			LastWeeklyRecordDate: r.LastWeeklyRecordDate,
		})
	}

	c.logger.Debug("Fetched evaluation status",
		zap.String("satellite_id", satelliteID),
		zap.Int("summary_count", len(summaries)),
	)
	return summaries, nil
}

// FetchSupportPlanStatus 利用者ごとの個別支援計画状況を取得する
func (c *Client) FetchSupportPlanStatus(ctx context.Context, satelliteID string) ([]models.SupportPlanStatus, error) {
	var raw []supportPlanRow
	if err := c.get(ctx, "/home-support/support-plan-status", satelliteID, &raw); err != nil {
		return nil, err
	}

	statuses := make([]models.SupportPlanStatus, 0, len(raw))
	for _, r := range raw {
		statuses = append(statuses, models.SupportPlanStatus{
			UserID:   r.UserID,
			UserName: r.UserName,
			Status:   models.ParsePlanStatus(r.Status),
			GoalDate: r.GoalDate,
		})
	}

	c.logger.Debug("Fetched support plan status",
		zap.String("satellite_id", satelliteID),
		zap.Int("status_count", len(statuses)),
	)
	return statuses, nil
}
