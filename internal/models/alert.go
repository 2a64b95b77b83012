package models

// アラートは評価パスごとに全量再計算される純粋な射影。
// パス内での同一性は (family, user_id) のみで、後から書き換えない

// DailyRecordAlert 日次記録アラート（終業打刻ありだが記録者サインオフなし）
type DailyRecordAlert struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Date     string `json:"date"` // 対象となった最新日次記録の日付
}

// WeeklyRecordAlert 週次評価アラート（基準日から8日以上経過）
type WeeklyRecordAlert struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Date     string `json:"date"`     // 判定に使った基準日
	DaysAgo  int    `json:"days_ago"` // 基準日からの経過日数
}

// MonthlyRecordAlert 月次達成度評価アラート（最新記録の月から暦月が進んだ）
type MonthlyRecordAlert struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	RecordDate string `json:"record_date"` // 最新日次記録の日付
}

// SupportPlanAlert 個別支援計画アラート
type SupportPlanAlert struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	Status        string `json:"status"`
	GoalDate      string `json:"goal_date,omitempty"`
	DaysUntilGoal *int   `json:"days_until_goal,omitempty"` // 負値は期限超過（意図どおり）
	Message       string `json:"message"`
}

// AlertState 4系統のアラートをまとめた公開用の状態
// 空でも形が安定するよう、スライスは常に非 nil で持つ
type AlertState struct {
	DailyRecord   []DailyRecordAlert  `json:"daily_record"`
	WeeklyRecord  []WeeklyRecordAlert `json:"weekly_record"`
	MonthlyRecord []MonthlyRecordAlert `json:"monthly_record"`
	SupportPlan   []SupportPlanAlert  `json:"support_plan"`
	GeneratedAt   int64               `json:"generated_at"` // Unix timestamp
}

// NewAlertState 空のアラート状態を作る
func NewAlertState(generatedAt int64) *AlertState {
	return &AlertState{
		DailyRecord:   []DailyRecordAlert{},
		WeeklyRecord:  []WeeklyRecordAlert{},
		MonthlyRecord: []MonthlyRecordAlert{},
		SupportPlan:   []SupportPlanAlert{},
		GeneratedAt:   generatedAt,
	}
}

// Total アラート総数
func (s *AlertState) Total() int {
	return len(s.DailyRecord) + len(s.WeeklyRecord) + len(s.MonthlyRecord) + len(s.SupportPlan)
}
