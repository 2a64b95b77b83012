// Package normalizer API の生行を利用者単位の集約に畳み込む
package normalizer

import (
	"sort"
	"strings"

	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/models"

	"go.uber.org/zap"
)

// BaselineTag 在宅支援カテゴリの基礎タグ。全利用者に必ず付与する
const BaselineTag = "在宅"

// Normalizer Record Normalizer
// フェッチサイクルごとに Student 集合を丸ごと作り直す（差分更新はしない）
type Normalizer struct {
	logger *zap.Logger
}

// New Normalizer を作る
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize 生行を利用者ごとの Student に集約する
// 返り値は初出順。各 Student の履歴は日付降順に明示的にソートする
// （上流の並び順は信用しない。日付不明の記録は末尾）
func (n *Normalizer) Normalize(rows []models.HomeSupportRow) []*models.Student {
	byID := make(map[string]*models.Student)
	seenTags := make(map[string]map[string]bool)
	var order []string

	for _, row := range rows {
		if row.UserID == "" {
			// 利用者IDのない行は捨てて続行
			n.logger.Warn("Dropping row without user id",
				zap.String("user_name", row.UserName),
			)
			continue
		}

		student, ok := byID[row.UserID]
		if !ok {
			// 初出行が識別情報を供給する
			student = &models.Student{
				ID:             row.UserID,
				Name:           row.UserName,
				InstructorName: row.InstructorName,
				LoginCode:      row.LoginCode,
				CompanyName:    row.CompanyName,
				IsRemoteUser:   row.IsRemoteUser,
				Tags:           []string{},
				DailyRecords:   []models.DailyRecord{},
			}
			byID[row.UserID] = student
			seenTags[row.UserID] = make(map[string]bool)
			order = append(order, row.UserID)

			n.addTag(student, seenTags[row.UserID], BaselineTag)
		}

		for _, tag := range row.Tag {
			n.addTag(student, seenTags[row.UserID], tag)
		}

		if row.DailyRecord != nil && row.DailyRecord.RecordID != nil {
			student.DailyRecords = append(student.DailyRecords, buildDailyRecord(row.DailyRecord))
		}
	}

	students := make([]*models.Student, 0, len(order))
	for _, id := range order {
		sortRecordsByDateDesc(byID[id].DailyRecords)
		students = append(students, byID[id])
	}

	n.logger.Debug("Normalized home support rows",
		zap.Int("row_count", len(rows)),
		zap.Int("student_count", len(students)),
	)

	return students
}

// addTag 空白を除去し、未登録のタグだけ追加する
func (n *Normalizer) addTag(student *models.Student, seen map[string]bool, tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || seen[tag] {
		return
	}
	seen[tag] = true
	student.Tags = append(student.Tags, tag)
}

// sortRecordsByDateDesc 日付降順の安定ソート。解釈できない日付は末尾に回す
func sortRecordsByDateDesc(records []models.DailyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, okI := dateref.Resolve(records[i].Date)
		tj, okJ := dateref.Resolve(records[j].Date)
		if okI != okJ {
			return okI // 日付ありを前に
		}
		if !okI {
			return false
		}
		return ti.After(tj)
	})
}

func buildDailyRecord(row *models.DailyRecordRow) models.DailyRecord {
	return models.DailyRecord{
		ID:                *row.RecordID,
		Date:              row.Date,
		MarkStart:         row.MarkStart,
		MarkLunchStart:    row.MarkLunchStart,
		MarkLunchEnd:      row.MarkLunchEnd,
		MarkEnd:           row.MarkEnd,
		Temperature:       row.Temperature,
		ConditionNote:     row.ConditionNote,
		WorkNote:          row.WorkNote,
		WorkResult:        row.WorkResult,
		DailyReport:       row.DailyReport,
		SupportMethod:     row.SupportMethod,
		SupportMethodNote: row.SupportMethodNote,
		TaskContent:       row.TaskContent,
		SupportContent:    row.SupportContent,
		Advice:            row.Advice,
		InstructorComment: row.InstructorComment,
		RecorderName:      row.RecorderName,
		PhotoURLs:         row.PhotoURLs,
		AttachmentURLs:    row.AttachmentURLs,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
