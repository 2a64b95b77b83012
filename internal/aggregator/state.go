package aggregator

import (
	"sync"

	"studysphere-alert/internal/models"
)

// StateStore 公開用アラート状態の保持
// 状態は常に丸ごと差し替える。途中経過が読めることはない
type StateStore struct {
	mu           sync.RWMutex
	current      *models.AlertState
	committedSeq uint64
}

// NewStateStore 空の状態で初期化する
func NewStateStore() *StateStore {
	return &StateStore{
		current: models.NewAlertState(0),
	}
}

// Commit 評価パスの結果を反映する
// seq はパス開始時に採番した単調増加の番号。より新しいパスが先に完了していたら
// 古い結果は破棄する（last-writer-wins）。反映されたら true
func (s *StateStore) Commit(state *models.AlertState, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.committedSeq {
		return false
	}
	s.committedSeq = seq
	s.current = state
	return true
}

// Snapshot 直近に完了したパスの状態を返す
func (s *StateStore) Snapshot() *models.AlertState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
