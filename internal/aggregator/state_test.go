package aggregator

import (
	"testing"

	"studysphere-alert/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_InitialSnapshotHasStableShape(t *testing.T) {
	store := NewStateStore()

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.NotNil(t, snap.DailyRecord)
	assert.NotNil(t, snap.WeeklyRecord)
	assert.NotNil(t, snap.MonthlyRecord)
	assert.NotNil(t, snap.SupportPlan)
	assert.Equal(t, 0, snap.Total())
}

func TestStateStore_CommitReplacesWholesale(t *testing.T) {
	store := NewStateStore()

	state := models.NewAlertState(100)
	state.DailyRecord = append(state.DailyRecord, models.DailyRecordAlert{UserID: "u1"})

	require.True(t, store.Commit(state, 1))
	assert.Equal(t, state, store.Snapshot())
}

func TestStateStore_LastWriterWins(t *testing.T) {
	store := NewStateStore()

	newer := models.NewAlertState(200)
	older := models.NewAlertState(100)

	// 後発のパス（seq 2）が先に完了した場合、先発（seq 1）の結果は破棄
	require.True(t, store.Commit(newer, 2))
	require.False(t, store.Commit(older, 1))

	assert.Equal(t, newer, store.Snapshot())
}
