package models

// Student 在宅支援の利用者（集約後）
// Normalizer が API 行から構築する。フェッチごとに全体を作り直す（差分更新はしない）
type Student struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	InstructorName string        `json:"instructor_name"`
	LoginCode      string        `json:"login_code"`
	CompanyName    string        `json:"company_name"`
	IsRemoteUser   bool          `json:"is_remote_user"`
	Tags           []string      `json:"tags"`          // 重複なし
	DailyRecords   []DailyRecord `json:"daily_records"` // 日付降順（[0] が最新）
}

// LatestRecord 最新の日次記録を返す（記録なしなら nil）
func (s *Student) LatestRecord() *DailyRecord {
	if len(s.DailyRecords) == 0 {
		return nil
	}
	return &s.DailyRecords[0]
}

// HasTag タグを持っているか
func (s *Student) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
