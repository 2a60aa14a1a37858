package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

func TestProximityEvaluator(t *testing.T) {
	stop := &model.Stop{
		ID:                  "stop-1",
		Order:               1,
		Coordinate:          model.Coordinate{Latitude: 35.0, Longitude: 135.76},
		TriggerRadiusMeters: 25,
	}

	// トリガー半径25mに対して約3m離れた地点
	nearStop := model.Coordinate{Latitude: 35.000027, Longitude: 135.76}
	// 半径の外側、約110m離れた地点
	farFromStop := model.Coordinate{Latitude: 35.001, Longitude: 135.76}

	t.Run("半径外ではApproachingと距離を返す", func(t *testing.T) {
		evaluator := NewProximityEvaluator()
		signal := evaluator.Evaluate(farFromStop, stop)
		assert.Equal(t, SignalApproaching, signal.Kind)
		assert.Greater(t, signal.DistanceMeters, 25.0)
	})

	t.Run("半径内に入ったらArrived", func(t *testing.T) {
		evaluator := NewProximityEvaluator()
		signal := evaluator.Evaluate(nearStop, stop)
		assert.Equal(t, SignalArrived, signal.Kind)
		assert.LessOrEqual(t, signal.DistanceMeters, 25.0)
	})

	t.Run("同一スポットへのArrivedは一度だけ発火する", func(t *testing.T) {
		evaluator := NewProximityEvaluator()
		arrivals := 0
		for i := 0; i < 10; i++ {
			if evaluator.Evaluate(nearStop, stop).Kind == SignalArrived {
				arrivals++
			}
		}
		assert.Equal(t, 1, arrivals)
	})

	t.Run("境界を出入りしても再発火しない", func(t *testing.T) {
		evaluator := NewProximityEvaluator()
		assert.Equal(t, SignalArrived, evaluator.Evaluate(nearStop, stop).Kind)
		assert.Equal(t, SignalApproaching, evaluator.Evaluate(farFromStop, stop).Kind)
		assert.Equal(t, SignalApproaching, evaluator.Evaluate(nearStop, stop).Kind)
	})

	t.Run("半径未指定のスポットはデフォルト25mで判定する", func(t *testing.T) {
		noRadius := &model.Stop{
			ID:         "stop-2",
			Order:      2,
			Coordinate: model.Coordinate{Latitude: 35.0, Longitude: 135.76},
		}
		evaluator := NewProximityEvaluator()
		assert.Equal(t, SignalArrived, evaluator.Evaluate(nearStop, noRadius).Kind)
	})

	t.Run("MarkFired済みのスポットは発火しない", func(t *testing.T) {
		evaluator := NewProximityEvaluator()
		evaluator.MarkFired(stop.ID)
		assert.Equal(t, SignalApproaching, evaluator.Evaluate(nearStop, stop).Kind)
	})
}
