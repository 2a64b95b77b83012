package evaluator

import (
	"time"

	"studysphere-alert/internal/models"
)

// DailyEvaluator 日次記録アラートの評価器
// 「終業打刻はあるのに記録者サインオフがない」を検出する。記録の有無そのものは見ない
type DailyEvaluator struct {
	evaluator *Evaluator
}

// NewDailyEvaluator 日次評価器を作る
func NewDailyEvaluator(evaluator *Evaluator) *DailyEvaluator {
	return &DailyEvaluator{evaluator: evaluator}
}

// Evaluate 日次記録アラートを評価する
// 条件：daily_status が未完了、かつ最新記録に mark_end あり・recorder_name なし
func (d *DailyEvaluator) Evaluate(
	byID map[string]*models.Student,
	summaries []models.EvaluationStatusSummary,
	now time.Time,
) []models.DailyRecordAlert {
	alerts := make([]models.DailyRecordAlert, 0)

	for _, sum := range summaries {
		if sum.DailyStatus != models.CompletionIncomplete {
			continue
		}

		student, ok := byID[sum.UserID]
		if !ok {
			continue
		}

		latest := student.LatestRecord()
		if latest == nil {
			continue
		}

		if latest.MarkEnd != nil && latest.RecorderName == nil {
			alerts = append(alerts, models.DailyRecordAlert{
				UserID:   sum.UserID,
				UserName: sum.UserName,
				Date:     latest.Date,
			})
		}
	}

	return alerts
}
