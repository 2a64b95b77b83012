// Package dateref 日付基準の解決
// 施設の civil timezone は JST 固定。日付のみの値は JST の 0時に anchoring する
package dateref

import (
	"strings"
	"time"
)

// JST 施設の固定タイムゾーン（tzdata に依存しない）
var JST = time.FixedZone("JST", 9*60*60)

const day = 24 * time.Hour

// Now 評価パスの基準となる現在時刻（JST）
// 1パスにつき1回だけ取得し、パス内のすべての判定で同じ値を使うこと
func Now() time.Time {
	return time.Now().In(JST)
}

// Resolve 日付/日時文字列を JST の instant に解決する
// "YYYY-MM-DD" はその日の 00:00:00 JST。解釈できない値は (zero, false) を返し、
// 呼び出し側はアラートを出さずにスキップする（誤検知より未検知を選ぶ）
func Resolve(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("2006-01-02", s, JST); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(JST), true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, JST); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// DaysSince floor((now - ref) / 86400s)。未来日付は 0 に clamp する
func DaysSince(now, ref time.Time) int {
	diff := now.Sub(ref)
	if diff < 0 {
		return 0
	}
	return int(diff / day)
}

// DaysUntil ceil((target - now) / 86400s)。期限超過なら負値になる
func DaysUntil(now, target time.Time) int {
	diff := target.Sub(now)
	days := int(diff / day)
	if diff > 0 && diff%day != 0 {
		days++
	}
	return days
}

// MonthRolledOver ref の暦月から now の暦月が1つ以上進んだか
// 日数ではなく (year, month) の純粋な比較
func MonthRolledOver(now, ref time.Time) bool {
	if now.Year() != ref.Year() {
		return now.Year() > ref.Year()
	}
	return now.Month() > ref.Month()
}

// OneMonthBefore 1暦月前（月末は AddDate の正規化に従う）
func OneMonthBefore(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}
