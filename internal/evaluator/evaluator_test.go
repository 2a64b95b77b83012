package evaluator

import (
	"testing"
	"time"

	"studysphere-alert/internal/dateref"
	"studysphere-alert/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func studentWithRecords(id string, records ...models.DailyRecord) *models.Student {
	return &models.Student{
		ID:           id,
		Name:         "山田",
		Tags:         []string{"在宅"},
		DailyRecords: records,
	}
}

func incompleteSummary(userID string) models.EvaluationStatusSummary {
	return models.EvaluationStatusSummary{
		UserID:        userID,
		UserName:      "山田",
		DailyStatus:   models.CompletionIncomplete,
		WeeklyStatus:  models.CompletionIncomplete,
		MonthlyStatus: models.CompletionIncomplete,
	}
}

func TestDaily_FiresOnMarkEndWithoutRecorder(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, dateref.JST)

	students := []*models.Student{
		studentWithRecords("u1", models.DailyRecord{
			ID:           "r1",
			Date:         "2024-01-15",
			MarkEnd:      strPtr("18:00"),
			RecorderName: nil,
		}),
	}
	sum := incompleteSummary("u1")
	sum.WeeklyStatus = models.CompletionComplete
	sum.MonthlyStatus = models.CompletionComplete

	res := e.Evaluate(students, []models.EvaluationStatusSummary{sum}, nil, now)
	require.Len(t, res.Daily, 1)
	assert.Equal(t, "u1", res.Daily[0].UserID)
	assert.Equal(t, "2024-01-15", res.Daily[0].Date)
}

func TestDaily_NoAlertWhenStatusComplete(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, dateref.JST)

	// 同じ記録の形でも完了ステータスなら発報しない
	students := []*models.Student{
		studentWithRecords("u1", models.DailyRecord{
			ID:      "r1",
			Date:    "2024-01-15",
			MarkEnd: strPtr("18:00"),
		}),
	}
	sum := incompleteSummary("u1")
	sum.DailyStatus = models.CompletionComplete

	res := e.Evaluate(students, []models.EvaluationStatusSummary{sum}, nil, now)
	assert.Empty(t, res.Daily)
}

func TestDaily_NoAlertWhenSignedOffOrNotClosed(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, dateref.JST)

	cases := []struct {
		name string
		rec  models.DailyRecord
	}{
		{"サインオフ済み", models.DailyRecord{ID: "r1", Date: "2024-01-15", MarkEnd: strPtr("18:00"), RecorderName: strPtr("田中")}},
		{"終業打刻なし", models.DailyRecord{ID: "r2", Date: "2024-01-15", MarkEnd: nil}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			students := []*models.Student{studentWithRecords("u1", tc.rec)}
			res := e.Evaluate(students, []models.EvaluationStatusSummary{incompleteSummary("u1")}, nil, now)
			assert.Empty(t, res.Daily)
		})
	}
}

func TestWeekly_ThresholdAtEightDays(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, dateref.JST)

	sum8 := incompleteSummary("u1")
	sum8.LastWeeklyPeriodEnd = "2024-01-07" // now - 8日

	res := e.Evaluate(nil, []models.EvaluationStatusSummary{sum8}, nil, now)
	require.Len(t, res.Weekly, 1)
	assert.Equal(t, 8, res.Weekly[0].DaysAgo)
	assert.Equal(t, "2024-01-07", res.Weekly[0].Date)

	sum7 := incompleteSummary("u1")
	sum7.LastWeeklyPeriodEnd = "2024-01-08" // now - 7日

	res = e.Evaluate(nil, []models.EvaluationStatusSummary{sum7}, nil, now)
	assert.Empty(t, res.Weekly)
}

func TestWeekly_ReferencePriorityOrder(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, dateref.JST)

	// periodEnd が最優先（recordDate は古いが無視される）
	sum := incompleteSummary("u1")
	sum.LastWeeklyPeriodEnd = "2024-01-10"
	sum.LastWeeklyRecordDate = "2023-12-01"

	res := e.Evaluate(nil, []models.EvaluationStatusSummary{sum}, nil, now)
	assert.Empty(t, res.Weekly, "periodEnd は 5 日前なので発報しない")

	// periodEnd が空なら recordDate
	sum.LastWeeklyPeriodEnd = ""
	res = e.Evaluate(nil, []models.EvaluationStatusSummary{sum}, nil, now)
	require.Len(t, res.Weekly, 1)
	assert.Equal(t, "2023-12-01", res.Weekly[0].Date)

	// どちらも空なら最新日次記録の日付
	sum.LastWeeklyRecordDate = ""
	students := []*models.Student{
		studentWithRecords("u1", models.DailyRecord{ID: "r1", Date: "2024-01-01"}),
	}
	res = e.Evaluate(students, []models.EvaluationStatusSummary{sum}, nil, now)
	require.Len(t, res.Weekly, 1)
	assert.Equal(t, 14, res.Weekly[0].DaysAgo)
}

func TestWeekly_UnknownReferenceSuppressesAlert(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, dateref.JST)

	sum := incompleteSummary("u1")
	sum.LastWeeklyPeriodEnd = "not-a-date"

	res := e.Evaluate(nil, []models.EvaluationStatusSummary{sum}, nil, now)
	assert.Empty(t, res.Weekly)
}

func TestMonthly_CalendarMonthRollover(t *testing.T) {
	e := New(zap.NewNop())

	// 最新記録が前月 → 日数に関わらず発報
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, dateref.JST)
	students := []*models.Student{
		studentWithRecords("u1", models.DailyRecord{ID: "r1", Date: "2024-01-31"}),
	}
	res := e.Evaluate(students, []models.EvaluationStatusSummary{incompleteSummary("u1")}, nil, now)
	require.Len(t, res.Monthly, 1)
	assert.Equal(t, "2024-01-31", res.Monthly[0].RecordDate)

	// 同月 → 発報なし
	now = time.Date(2024, 1, 31, 23, 0, 0, 0, dateref.JST)
	res = e.Evaluate(students, []models.EvaluationStatusSummary{incompleteSummary("u1")}, nil, now)
	assert.Empty(t, res.Monthly)
}

func TestMonthly_RequiresAtLeastOneRecord(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, dateref.JST)

	students := []*models.Student{studentWithRecords("u1")}
	res := e.Evaluate(students, []models.EvaluationStatusSummary{incompleteSummary("u1")}, nil, now)
	assert.Empty(t, res.Monthly)
}

func TestSupportPlan_NoRecordAlwaysAlerts(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, dateref.JST)

	plans := []models.SupportPlanStatus{
		{UserID: "u1", UserName: "山田", Status: models.PlanNoRecord},
	}
	res := e.Evaluate(nil, nil, plans, now)
	require.Len(t, res.SupportPlan, 1)
	assert.Equal(t, "no_record", res.SupportPlan[0].Status)
	assert.Equal(t, msgPlanMissing, res.SupportPlan[0].Message)
	assert.Nil(t, res.SupportPlan[0].DaysUntilGoal)
}

func TestSupportPlan_GoalDateUnset(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, dateref.JST)

	plans := []models.SupportPlanStatus{
		{UserID: "u1", Status: models.PlanNoGoalDate},
		{UserID: "u2", Status: models.PlanHasGoalDate, GoalDate: ""},
	}
	res := e.Evaluate(nil, nil, plans, now)
	require.Len(t, res.SupportPlan, 2)
	assert.Equal(t, msgGoalDateUnset, res.SupportPlan[0].Message)
	assert.Equal(t, msgGoalDateUnset, res.SupportPlan[1].Message)
}

func TestSupportPlan_OneMonthBeforeThreshold(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, dateref.JST)

	// goal = now + 29日 → 1暦月前（3/30）を過ぎているので発報、残り29日
	plans := []models.SupportPlanStatus{
		{UserID: "u1", UserName: "山田", Status: models.PlanHasGoalDate, GoalDate: "2024-04-30"},
	}
	res := e.Evaluate(nil, nil, plans, now)
	require.Len(t, res.SupportPlan, 1)
	require.NotNil(t, res.SupportPlan[0].DaysUntilGoal)
	assert.Equal(t, 29, *res.SupportPlan[0].DaysUntilGoal)
	assert.Equal(t, "2024-04-30", res.SupportPlan[0].GoalDate)

	// goal = now + 31日（5/2）→ 1暦月前は 4/2 でまだ先、発報なし
	plans[0].GoalDate = "2024-05-02"
	res = e.Evaluate(nil, nil, plans, now)
	assert.Empty(t, res.SupportPlan)
}

func TestSupportPlan_OverdueGoalYieldsNegativeDays(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 4, 10, 0, 0, 0, 0, dateref.JST)

	plans := []models.SupportPlanStatus{
		{UserID: "u1", Status: models.PlanHasGoalDate, GoalDate: "2024-04-01"},
	}
	res := e.Evaluate(nil, nil, plans, now)
	require.Len(t, res.SupportPlan, 1)
	require.NotNil(t, res.SupportPlan[0].DaysUntilGoal)
	assert.Equal(t, -9, *res.SupportPlan[0].DaysUntilGoal)
	assert.Equal(t, msgGoalDatePassed, res.SupportPlan[0].Message)
}

func TestSupportPlan_UnparseableGoalDateSkips(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, dateref.JST)

	plans := []models.SupportPlanStatus{
		{UserID: "u1", Status: models.PlanHasGoalDate, GoalDate: "99/99/9999"},
	}
	res := e.Evaluate(nil, nil, plans, now)
	assert.Empty(t, res.SupportPlan)
}

func TestEvaluate_PreservesSummaryOrder(t *testing.T) {
	e := New(zap.NewNop())
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, dateref.JST)

	sumA := incompleteSummary("u-b")
	sumA.LastWeeklyPeriodEnd = "2024-01-01"
	sumB := incompleteSummary("u-a")
	sumB.LastWeeklyPeriodEnd = "2024-01-01"

	// ID 順ではなくサマリの並び順のまま
	res := e.Evaluate(nil, []models.EvaluationStatusSummary{sumA, sumB}, nil, now)
	require.Len(t, res.Weekly, 2)
	assert.Equal(t, "u-b", res.Weekly[0].UserID)
	assert.Equal(t, "u-a", res.Weekly[1].UserID)
}
