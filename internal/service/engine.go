package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"studysphere-alert/internal/aggregator"
	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/evaluator"
	"studysphere-alert/internal/models"
	"studysphere-alert/internal/normalizer"
	"studysphere-alert/internal/repository"

	"go.uber.org/zap"
)

// Fetcher バックエンドの3ソースを取得するインターフェース（テストで差し替える）
type Fetcher interface {
	FetchHomeSupportRecords(ctx context.Context, satelliteID string) ([]models.HomeSupportRow, error)
	FetchEvaluationStatus(ctx context.Context, satelliteID string) ([]models.EvaluationStatusSummary, error)
	FetchSupportPlanStatus(ctx context.Context, satelliteID string) ([]models.SupportPlanStatus, error)
}

// Engine 評価パスの実行本体
// フェッチ → 正規化 → 評価 → 状態差し替え → キャッシュ発行 → 履歴記録
type Engine struct {
	fetcher     Fetcher
	normalizer  *normalizer.Normalizer
	evaluator   *evaluator.Evaluator
	store       *aggregator.StateStore
	cache       *aggregator.CacheManager        // nil なら発行しない
	alertLog    *repository.AlertLogRepository // nil なら記録しない
	logger      *zap.Logger
	satelliteID string
	passTimeout time.Duration

	// パスの採番（last-writer-wins 用）
	seq atomic.Uint64
}

// NewEngine エンジンを作る
func NewEngine(
	fetcher Fetcher,
	store *aggregator.StateStore,
	cache *aggregator.CacheManager,
	alertLog *repository.AlertLogRepository,
	logger *zap.Logger,
	satelliteID string,
	passTimeout time.Duration,
) *Engine {
	return &Engine{
		fetcher:     fetcher,
		normalizer:  normalizer.New(logger),
		evaluator:   evaluator.New(logger),
		store:       store,
		cache:       cache,
		alertLog:    alertLog,
		logger:      logger,
		satelliteID: satelliteID,
		passTimeout: passTimeout,
	}
}

// State 直近に完了したパスのアラート状態（表示層向け）
func (e *Engine) State() *models.AlertState {
	return e.store.Snapshot()
}

// RunPass 評価パスを1回実行する
// フェッチ失敗は該当系統のリストを空にして継続する（stale 表示より未表示を選ぶ）。
// パス中のエラーは致命にしない。返り値の error は実行自体の中断（ctx 取消）のみ
func (e *Engine) RunPass(ctx context.Context) error {
	seq := e.seq.Add(1)
	now := dateref.Now()

	// フェッチ段階だけにタイムアウトを掛ける
	fetchCtx, cancel := context.WithTimeout(ctx, e.passTimeout)
	defer cancel()

	var (
		rows      []models.HomeSupportRow
		summaries []models.EvaluationStatusSummary
		plans     []models.SupportPlanStatus
		rowsErr   error
		sumErr    error
		planErr   error
	)

	// 3ソースは独立なので並行に取得する。参照実装同様、全部の到着を待つ
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		rows, rowsErr = e.fetcher.FetchHomeSupportRecords(fetchCtx, e.satelliteID)
	}()
	go func() {
		defer wg.Done()
		summaries, sumErr = e.fetcher.FetchEvaluationStatus(fetchCtx, e.satelliteID)
	}()
	go func() {
		defer wg.Done()
		plans, planErr = e.fetcher.FetchSupportPlanStatus(fetchCtx, e.satelliteID)
	}()
	wg.Wait()

	if rowsErr != nil {
		e.logger.Error("Failed to fetch home support records", zap.Error(rowsErr))
	}
	if sumErr != nil {
		e.logger.Error("Failed to fetch evaluation status", zap.Error(sumErr))
	}
	if planErr != nil {
		e.logger.Error("Failed to fetch support plan status", zap.Error(planErr))
	}

	students := e.normalizer.Normalize(rows)
	result := e.evaluator.Evaluate(students, summaries, plans, now)

	// 取得に失敗したソースに依存する系統は空のまま残す
	state := models.NewAlertState(now.Unix())
	if rowsErr == nil && sumErr == nil {
		state.DailyRecord = result.Daily
		state.WeeklyRecord = result.Weekly
		state.MonthlyRecord = result.Monthly
	}
	if planErr == nil {
		state.SupportPlan = result.SupportPlan
	}

	if !e.store.Commit(state, seq) {
		// より新しいパスが先に完了している。この結果は破棄
		e.logger.Info("Discarding stale evaluation pass",
			zap.Uint64("seq", seq),
		)
		return nil
	}

	if e.cache != nil {
		if err := e.cache.Publish(ctx, e.satelliteID, state); err != nil {
			e.logger.Error("Failed to publish alert state cache", zap.Error(err))
		}
	}

	if e.alertLog != nil && state.Total() > 0 {
		if err := e.alertLog.InsertAlerts(e.satelliteID, state); err != nil {
			e.logger.Error("Failed to persist alert events", zap.Error(err))
		}
	}

	e.logger.Info("Evaluation pass completed",
		zap.Uint64("seq", seq),
		zap.Int("student_count", len(students)),
		zap.Int("daily_alerts", len(state.DailyRecord)),
		zap.Int("weekly_alerts", len(state.WeeklyRecord)),
		zap.Int("monthly_alerts", len(state.MonthlyRecord)),
		zap.Int("support_plan_alerts", len(state.SupportPlan)),
	)

	return nil
}
