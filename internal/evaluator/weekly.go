package evaluator

import (
	"time"

	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// weeklyOverdueDays 週次評価アラートの閾値（基準日からの経過日数）
const weeklyOverdueDays = 8

// WeeklyEvaluator 週次評価アラートの評価器
type WeeklyEvaluator struct {
	evaluator *Evaluator
}

// NewWeeklyEvaluator 週次評価器を作る
func NewWeeklyEvaluator(evaluator *Evaluator) *WeeklyEvaluator {
	return &WeeklyEvaluator{evaluator: evaluator}
}

// Evaluate 週次評価アラートを評価する
// 基準日は lastWeeklyPeriodEnd → lastWeeklyRecordDate → 最新日次記録の日付 の優先順で
// 最初に得られたもの。基準日が不明なら発報しない（誤検知より未検知）
func (w *WeeklyEvaluator) Evaluate(
	byID map[string]*models.Student,
	summaries []models.EvaluationStatusSummary,
	now time.Time,
) []models.WeeklyRecordAlert {
	alerts := make([]models.WeeklyRecordAlert, 0)

	for _, sum := range summaries {
		if sum.WeeklyStatus != models.CompletionIncomplete {
			continue
		}

		refStr := sum.LastWeeklyPeriodEnd
		if refStr == "" {
			refStr = sum.LastWeeklyRecordDate
		}
		if refStr == "" {
			if student, ok := byID[sum.UserID]; ok {
				if latest := student.LatestRecord(); latest != nil {
					refStr = latest.Date
				}
			}
		}
		if refStr == "" {
			continue
		}

		ref, ok := dateref.Resolve(refStr)
		if !ok {
			w.evaluator.logger.Debug("Skipping weekly alert with unknown reference date",
				zap.String("user_id", sum.UserID),
				zap.String("reference", refStr),
			)
			continue
		}

		days := dateref.DaysSince(now, ref)
		if days >= weeklyOverdueDays {
			alerts = append(alerts, models.WeeklyRecordAlert{
				UserID:   sum.UserID,
				UserName: sum.UserName,
				Date:     refStr,
				DaysAgo:  days,
			})
		}
	}

	return alerts
}
