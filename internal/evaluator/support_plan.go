package evaluator

import (
	"fmt"
	"time"

	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// 個別支援計画アラートのメッセージ
const (
	msgPlanMissing    = "個別支援計画が作成されていません"
	msgGoalDateUnset  = "目標達成予定日を設定してください"
	msgGoalDatePassed = "目標達成予定日を過ぎています。計画の更新が必要です"
)

// SupportPlanEvaluator 個別支援計画アラートの評価器
// 他の3系統とは独立で、計画ステータスのみで判定する
type SupportPlanEvaluator struct {
	evaluator *Evaluator
}

// NewSupportPlanEvaluator 個別支援計画評価器を作る
func NewSupportPlanEvaluator(evaluator *Evaluator) *SupportPlanEvaluator {
	return &SupportPlanEvaluator{evaluator: evaluator}
}

// Evaluate 個別支援計画アラートを評価する
// - no_record → 常に発報（計画なし）
// - no_goal_date / has_goal_date で目標日が空 → 常に発報（目標日未設定）
// - has_goal_date で目標日あり → 目標日の1暦月前を過ぎたら発報。
//   days_until_goal は負値になり得る（期限超過の意図的なシグナル）
func (p *SupportPlanEvaluator) Evaluate(
	plans []models.SupportPlanStatus,
	now time.Time,
) []models.SupportPlanAlert {
	alerts := make([]models.SupportPlanAlert, 0)

	for _, plan := range plans {
		switch plan.Status {
		case models.PlanNoRecord:
			alerts = append(alerts, models.SupportPlanAlert{
				UserID:   plan.UserID,
				UserName: plan.UserName,
				Status:   plan.Status.String(),
				Message:  msgPlanMissing,
			})

		case models.PlanNoGoalDate:
			alerts = append(alerts, p.goalDateUnsetAlert(plan))

		case models.PlanHasGoalDate:
			if plan.GoalDate == "" {
				alerts = append(alerts, p.goalDateUnsetAlert(plan))
				continue
			}

			goal, ok := dateref.Resolve(plan.GoalDate)
			if !ok {
				p.evaluator.logger.Debug("Skipping support plan alert with unknown goal date",
					zap.String("user_id", plan.UserID),
					zap.String("goal_date", plan.GoalDate),
				)
				continue
			}

			oneMonthBefore := dateref.OneMonthBefore(goal)
			if now.Before(oneMonthBefore) {
				continue
			}

			days := dateref.DaysUntil(now, goal)
			alerts = append(alerts, models.SupportPlanAlert{
				UserID:        plan.UserID,
				UserName:      plan.UserName,
				Status:        plan.Status.String(),
				GoalDate:      plan.GoalDate,
				DaysUntilGoal: &days,
				Message:       goalApproachMessage(days),
			})
		}
	}

	return alerts
}

func (p *SupportPlanEvaluator) goalDateUnsetAlert(plan models.SupportPlanStatus) models.SupportPlanAlert {
	return models.SupportPlanAlert{
		UserID:   plan.UserID,
		UserName: plan.UserName,
		Status:   plan.Status.String(),
		Message:  msgGoalDateUnset,
	}
}

func goalApproachMessage(daysUntilGoal int) string {
	if daysUntilGoal < 0 {
		return msgGoalDatePassed
	}
	return fmt.Sprintf("目標達成予定日まで残り%d日です。計画の更新を検討してください", daysUntilGoal)
}
