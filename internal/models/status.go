package models

// バックエンド由来のステータス列挙は境界（fetcher）で一度だけ型付きに変換する。
// Evaluator では生文字列の比較をしない

// CompletionStatus 日次/週次/月次評価の完了ステータス
type CompletionStatus int

const (
	CompletionUnknown    CompletionStatus = iota
	CompletionIncomplete                  // 未完了
	CompletionComplete                    // 完了
)

// ParseCompletionStatus バックエンドの生文字列を変換する
func ParseCompletionStatus(s string) CompletionStatus {
	switch s {
	case "未完了":
		return CompletionIncomplete
	case "完了":
		return CompletionComplete
	default:
		return CompletionUnknown
	}
}

func (s CompletionStatus) String() string {
	switch s {
	case CompletionIncomplete:
		return "未完了"
	case CompletionComplete:
		return "完了"
	default:
		return "unknown"
	}
}

// PlanStatus 個別支援計画のステータス
type PlanStatus int

const (
	PlanStatusUnknown PlanStatus = iota
	PlanNoRecord                 // 計画が存在しない
	PlanNoGoalDate               // 計画はあるが目標達成予定日が未設定
	PlanHasGoalDate              // 目標達成予定日あり
)

// ParsePlanStatus バックエンドの生文字列を変換する
func ParsePlanStatus(s string) PlanStatus {
	switch s {
	case "no_record":
		return PlanNoRecord
	case "no_goal_date":
		return PlanNoGoalDate
	case "has_goal_date":
		return PlanHasGoalDate
	default:
		return PlanStatusUnknown
	}
}

func (s PlanStatus) String() string {
	switch s {
	case PlanNoRecord:
		return "no_record"
	case PlanNoGoalDate:
		return "no_goal_date"
	case PlanHasGoalDate:
		return "has_goal_date"
	default:
		return "unknown"
	}
}

// EvaluationStatusSummary バックエンドが算出した利用者ごとの評価状況
// 完了ステータス自体はバックエンドが正であり、こちらでは再判定しない
type EvaluationStatusSummary struct {
	UserID               string           `json:"user_id"`
	UserName             string           `json:"user_name"`
	DailyStatus          CompletionStatus `json:"daily_status"`
	WeeklyStatus         CompletionStatus `json:"weekly_status"`
	MonthlyStatus        CompletionStatus `json:"monthly_status"`
	LastWeeklyPeriodEnd  string           `json:"last_weekly_period_end"`  // "YYYY-MM-DD"（空あり）
	LastWeeklyRecordDate string           `json:"last_weekly_record_date"` // "YYYY-MM-DD"（空あり）
}

// SupportPlanStatus 利用者ごとの個別支援計画の状況
type SupportPlanStatus struct {
	UserID   string     `json:"user_id"`
	UserName string     `json:"user_name"`
	Status   PlanStatus `json:"status"`
	GoalDate string     `json:"goal_date"` // "YYYY-MM-DD"（空あり）
}
