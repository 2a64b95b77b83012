package models

import (
	"encoding/json"
	"strings"
)

// HomeSupportRow バックエンド API の生の1行（利用者 × 日次記録 0..1 件）
// 同じ利用者が複数行に現れる。Normalizer が Student に畳み込む
type HomeSupportRow struct {
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	InstructorName string          `json:"instructor_name"`
	LoginCode      string          `json:"login_code"`
	CompanyName    string          `json:"company_name"`
	IsRemoteUser   bool            `json:"is_remote_user"`
	Tag            TagField        `json:"tag"`
	DailyRecord    *DailyRecordRow `json:"daily_record"`
}

// DailyRecordRow 日次記録の生データ（record_id が null の行は記録なし扱い）
type DailyRecordRow struct {
	RecordID          *string  `json:"record_id"`
	Date              string   `json:"date"`
	MarkStart         *string  `json:"mark_start"`
	MarkLunchStart    *string  `json:"mark_lunch_start"`
	MarkLunchEnd      *string  `json:"mark_lunch_end"`
	MarkEnd           *string  `json:"mark_end"`
	Temperature       *float64 `json:"temperature"`
	ConditionNote     string   `json:"condition_note"`
	WorkNote          string   `json:"work_note"`
	WorkResult        string   `json:"work_result"`
	DailyReport       string   `json:"daily_report"`
	SupportMethod     string   `json:"support_method"`
	SupportMethodNote string   `json:"support_method_note"`
	TaskContent       string   `json:"task_content"`
	SupportContent    string   `json:"support_content"`
	Advice            string   `json:"advice"`
	InstructorComment string   `json:"instructor_comment"`
	RecorderName      *string  `json:"recorder_name"`
	PhotoURLs         []string `json:"photo_urls"`
	AttachmentURLs    []string `json:"attachment_urls"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// TagField バックエンドのタグ項目。null / 文字列 / 文字列配列 のいずれでも来る
type TagField []string

// UnmarshalJSON 3形態を吸収して文字列配列に正規化する
func (t *TagField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*t = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TagField{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = TagField(list)
	return nil
}
