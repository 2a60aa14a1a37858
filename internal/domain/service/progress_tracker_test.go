package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

func makeTestStops() []*model.Stop {
	return []*model.Stop{
		{ID: "stop-1", Order: 1, Name: "大聖堂"},
		{ID: "stop-2", Order: 2, Name: "旧市街広場"},
		{ID: "stop-3", Order: 3, Name: "河畔の塔"},
	}
}

func TestProgressTracker(t *testing.T) {
	t.Run("最初の未訪問スポットはOrder最小のもの", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		next := tracker.NextUnvisited()
		assert.NotNil(t, next)
		assert.Equal(t, "stop-1", next.ID)
	})

	t.Run("訪問済みスポットはNextUnvisitedから除外される", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		tracker.MarkVisited("stop-1")
		next := tracker.NextUnvisited()
		assert.Equal(t, "stop-2", next.ID)
	})

	t.Run("全訪問後はNextUnvisitedがnil", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		tracker.MarkVisited("stop-1")
		tracker.MarkVisited("stop-2")
		tracker.MarkVisited("stop-3")
		assert.Nil(t, tracker.NextUnvisited())
	})

	t.Run("MarkVisitedは冪等", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		assert.True(t, tracker.MarkVisited("stop-2"))
		assert.False(t, tracker.MarkVisited("stop-2"))
		assert.Equal(t, 1, tracker.VisitedCount())
	})

	t.Run("VisitedCountは単調非減少", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		previous := 0
		for _, id := range []string{"stop-2", "stop-2", "stop-1", "stop-3", "stop-1"} {
			tracker.MarkVisited(id)
			count := tracker.VisitedCount()
			assert.GreaterOrEqual(t, count, previous)
			previous = count
		}
		assert.Equal(t, 3, previous)
	})

	t.Run("順序が乱れた入力でもOrder昇順に整列する", func(t *testing.T) {
		stops := []*model.Stop{
			{ID: "stop-3", Order: 3},
			{ID: "stop-1", Order: 1},
			{ID: "stop-2", Order: 2},
		}
		tracker := NewProgressTracker(stops)
		assert.Equal(t, "stop-1", tracker.NextUnvisited().ID)
	})

	t.Run("存在しないIDのMarkVisitedは何もしない", func(t *testing.T) {
		tracker := NewProgressTracker(makeTestStops())
		assert.False(t, tracker.MarkVisited("unknown"))
		assert.Equal(t, 0, tracker.VisitedCount())
	})
}

func TestDistanceWalked(t *testing.T) {
	segments := []float64{120, 250, 300}

	t.Run("訪問済み数に応じた先頭区間の合計", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceWalked(segments, 0))
		assert.Equal(t, 120.0, DistanceWalked(segments, 1))
		assert.Equal(t, 370.0, DistanceWalked(segments, 2))
		assert.Equal(t, 670.0, DistanceWalked(segments, 3))
	})

	t.Run("訪問済み数が区間数を超えても安全", func(t *testing.T) {
		assert.Equal(t, 670.0, DistanceWalked(segments, 10))
	})
}
