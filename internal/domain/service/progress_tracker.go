package service

import (
	"sort"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// ProgressTracker 順序付きスポット列のvisitedフラグを管理する
// visitedは単調であり、セッション中に未訪問へ戻ることはない
type ProgressTracker struct {
	stops []*model.Stop
}

// NewProgressTracker 新しいProgressTrackerを作成する
// スポット列はOrder昇順に整列して保持する
func NewProgressTracker(stops []*model.Stop) *ProgressTracker {
	ordered := make([]*model.Stop, len(stops))
	copy(ordered, stops)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return &ProgressTracker{stops: ordered}
}

// Stops Order昇順のスポット列を返す
func (t *ProgressTracker) Stops() []*model.Stop {
	return t.stops
}

// NextUnvisited 最もOrderの小さい未訪問スポットを返す
// 全て訪問済みの場合はnil
func (t *ProgressTracker) NextUnvisited() *model.Stop {
	for _, stop := range t.stops {
		if !stop.Visited {
			return stop
		}
	}
	return nil
}

// VisitedCount 訪問済みスポット数を返す
func (t *ProgressTracker) VisitedCount() int {
	count := 0
	for _, stop := range t.stops {
		if stop.Visited {
			count++
		}
	}
	return count
}

// MarkVisited 指定スポットを訪問済みにする
// 既に訪問済みの場合は何もしない（冪等）
// 新たに訪問済みになった場合のみtrueを返す
func (t *ProgressTracker) MarkVisited(stopID string) bool {
	for _, stop := range t.stops {
		if stop.ID == stopID {
			if stop.Visited {
				return false
			}
			stop.Visited = true
			return true
		}
	}
	return false
}

// VisitedStopIDs 訪問済みスポットのIDをOrder昇順で返す
func (t *ProgressTracker) VisitedStopIDs() []string {
	ids := make([]string, 0, len(t.stops))
	for _, stop := range t.stops {
		if stop.Visited {
			ids = append(ids, stop.ID)
		}
	}
	return ids
}

// DistanceWalked 訪問済み数に応じた歩行距離を返す
// スポットkに到達した時点で区間0〜k-1を通過したものとして合算する
func DistanceWalked(segmentDistances []float64, visitedCount int) float64 {
	n := visitedCount
	if n > len(segmentDistances) {
		n = len(segmentDistances)
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += segmentDistances[i]
	}
	return total
}
