package evaluator

import (
	"time"

	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// MonthlyEvaluator 月次達成度評価アラートの評価器
type MonthlyEvaluator struct {
	evaluator *Evaluator
}

// NewMonthlyEvaluator 月次評価器を作る
func NewMonthlyEvaluator(evaluator *Evaluator) *MonthlyEvaluator {
	return &MonthlyEvaluator{evaluator: evaluator}
}

// Evaluate 月次達成度評価アラートを評価する
// 条件：monthly_status が未完了、かつ日次記録が1件以上あり、
// 最新記録の暦月より now の暦月が進んでいる（日数閾値ではなく年月の比較）
func (m *MonthlyEvaluator) Evaluate(
	byID map[string]*models.Student,
	summaries []models.EvaluationStatusSummary,
	now time.Time,
) []models.MonthlyRecordAlert {
	alerts := make([]models.MonthlyRecordAlert, 0)

	for _, sum := range summaries {
		if sum.MonthlyStatus != models.CompletionIncomplete {
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

		recordDate, ok := dateref.Resolve(latest.Date)
		if !ok {
			m.evaluator.logger.Debug("Skipping monthly alert with unknown record date",
				zap.String("user_id", sum.UserID),
				zap.String("record_date", latest.Date),
			)
			continue
		}

		if dateref.MonthRolledOver(now, recordDate) {
			alerts = append(alerts, models.MonthlyRecordAlert{
				UserID:     sum.UserID,
				UserName:   sum.UserName,
				RecordDate: latest.Date,
			})
		}
	}

	return alerts
}
