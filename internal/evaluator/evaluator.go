// Package evaluator コンプライアンスアラートの評価
// (students, summaries, plans, now) の純関数。ログ以外の副作用を持たない
package evaluator

import (
	"time"

	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// Evaluator コンプライアンス評価器
type Evaluator struct {
	logger *zap.Logger

	// 系統別の評価器
	daily   *DailyEvaluator       // 日次記録（打刻あり・サインオフなし）
	weekly  *WeeklyEvaluator      // 週次評価（基準日から8日以上経過）
	monthly *MonthlyEvaluator     // 月次達成度評価（暦月ロールオーバー）
	plan    *SupportPlanEvaluator // 個別支援計画（作成・目標日・更新期限）
}

// Result 4系統のアラートリスト
type Result struct {
	Daily       []models.DailyRecordAlert
	Weekly      []models.WeeklyRecordAlert
	Monthly     []models.MonthlyRecordAlert
	SupportPlan []models.SupportPlanAlert
}

// New 評価器を作る
func New(logger *zap.Logger) *Evaluator {
	e := &Evaluator{logger: logger}
	e.daily = NewDailyEvaluator(e)
	e.weekly = NewWeeklyEvaluator(e)
	e.monthly = NewMonthlyEvaluator(e)
	e.plan = NewSupportPlanEvaluator(e)
	return e
}

// Evaluate 全系統を評価する
// 利用者をまたぐ順序はサマリ/計画リストの並び順のまま（ソートしない）
func (e *Evaluator) Evaluate(
	students []*models.Student,
	summaries []models.EvaluationStatusSummary,
	plans []models.SupportPlanStatus,
	now time.Time,
) Result {
	byID := make(map[string]*models.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	result := Result{
		Daily:       e.daily.Evaluate(byID, summaries, now),
		Weekly:      e.weekly.Evaluate(byID, summaries, now),
		Monthly:     e.monthly.Evaluate(byID, summaries, now),
		SupportPlan: e.plan.Evaluate(plans, now),
	}

	e.logger.Debug("Compliance evaluation completed",
		zap.Int("daily_alerts", len(result.Daily)),
		zap.Int("weekly_alerts", len(result.Weekly)),
		zap.Int("monthly_alerts", len(result.Monthly)),
		zap.Int("support_plan_alerts", len(result.SupportPlan)),
	)

	return result
}
