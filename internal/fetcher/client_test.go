package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studysphere-alert/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, path, data string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, path, r.URL.Path)
		require.Equal(t, "sat-1", r.URL.Query().Get("satellite_id"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":0,"msg":"ok","data":%s}`, data)
	}))
}

func TestFetchHomeSupportRecords_DecodesTagVariants(t *testing.T) {
	data := `[
		{"user_id":"u1","user_name":"山田","tag":"精神","daily_record":{"record_id":"r1","date":"2024-01-15","mark_end":"18:00","recorder_name":null}},
		{"user_id":"u2","user_name":"佐藤","tag":["身体","知的"],"daily_record":null},
		{"user_id":"u3","user_name":"鈴木","tag":null,"daily_record":null}
	]`
	srv := newTestServer(t, "/home-support/records", data)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())
	rows, err := c.FetchHomeSupportRecords(context.Background(), "sat-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.TagField{"精神"}, rows[0].Tag)
	assert.Equal(t, models.TagField{"身体", "知的"}, rows[1].Tag)
	assert.Nil(t, rows[2].Tag)

	require.NotNil(t, rows[0].DailyRecord)
	require.NotNil(t, rows[0].DailyRecord.MarkEnd)
	assert.Nil(t, rows[0].DailyRecord.RecorderName)
	assert.Nil(t, rows[1].DailyRecord)
}

func TestFetchEvaluationStatus_MapsEnumsAtBoundary(t *testing.T) {
	data := `[
		{"user_id":"u1","user_name":"山田","daily_status":"未完了","weekly_status":"完了","monthly_status":"未完了","last_weekly_period_end":"2024-01-07","last_weekly_record_date":""},
		{"user_id":"u2","user_name":"佐藤","daily_status":"不明な値","weekly_status":"未完了","monthly_status":"完了"}
	]`
	srv := newTestServer(t, "/home-support/evaluation-status", data)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())
	summaries, err := c.FetchEvaluationStatus(context.Background(), "sat-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, models.CompletionIncomplete, summaries[0].DailyStatus)
	assert.Equal(t, models.CompletionComplete, summaries[0].WeeklyStatus)
	assert.Equal(t, "2024-01-07", summaries[0].LastWeeklyPeriodEnd)

	// 未知の文字列は unknown に落ちる
	assert.Equal(t, models.CompletionUnknown, summaries[1].DailyStatus)
}

func TestFetchSupportPlanStatus(t *testing.T) {
	data := `[
		{"user_id":"u1","user_name":"山田","status":"no_record","goal_date":""},
		{"user_id":"u2","user_name":"佐藤","status":"has_goal_date","goal_date":"2024-04-30"}
	]`
	srv := newTestServer(t, "/home-support/support-plan-status", data)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())
	statuses, err := c.FetchSupportPlanStatus(context.Background(), "sat-1")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, models.PlanNoRecord, statuses[0].Status)
	assert.Equal(t, models.PlanHasGoalDate, statuses[1].Status)
	assert.Equal(t, "2024-04-30", statuses[1].GoalDate)
}

func TestFetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":500,"msg":"internal error","data":null}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())
	_, err := c.FetchHomeSupportRecords(context.Background(), "sat-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
}
