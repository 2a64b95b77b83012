package models

// DailyRecord 1日分の作業記録＋指導員の所見
// フェッチ内では不変。Normalizer だけが Student の履歴に追加する
type DailyRecord struct {
	ID   string `json:"id"`
	Date string `json:"date"` // "YYYY-MM-DD"

	// 打刻（nil は未打刻）。打刻の有無だけをアラート判定に使う
	MarkStart      *string `json:"mark_start"`
	MarkLunchStart *string `json:"mark_lunch_start"`
	MarkLunchEnd   *string `json:"mark_lunch_end"`
	MarkEnd        *string `json:"mark_end"`

	Temperature *float64 `json:"temperature"`

	ConditionNote     string `json:"condition_note"`
	WorkNote          string `json:"work_note"`
	WorkResult        string `json:"work_result"`
	DailyReport       string `json:"daily_report"`
	SupportMethod     string `json:"support_method"`
	SupportMethodNote string `json:"support_method_note"`
	TaskContent       string `json:"task_content"`
	SupportContent    string `json:"support_content"`
	Advice            string `json:"advice"`
	InstructorComment string `json:"instructor_comment"`

	// nil なら指導員の記録者サインオフが未実施
	RecorderName *string `json:"recorder_name"`

	PhotoURLs      []string `json:"photo_urls"`
	AttachmentURLs []string `json:"attachment_urls"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
