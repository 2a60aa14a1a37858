package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

func makeOptimizerStops() []*model.Stop {
	// 緯度方向に約111mずつ並んだ4スポット
	return []*model.Stop{
		{ID: "s1", Order: 1, Coordinate: model.Coordinate{Latitude: 35.000, Longitude: 135.76}},
		{ID: "s2", Order: 2, Coordinate: model.Coordinate{Latitude: 35.001, Longitude: 135.76}},
		{ID: "s3", Order: 3, Coordinate: model.Coordinate{Latitude: 35.002, Longitude: 135.76}},
		{ID: "s4", Order: 4, Coordinate: model.Coordinate{Latitude: 35.003, Longitude: 135.76}},
	}
}

func TestRotateFromNearest(t *testing.T) {
	t.Run("最寄りが先頭なら入力と同一の並びを返す", func(t *testing.T) {
		stops := makeOptimizerStops()
		user := model.Coordinate{Latitude: 34.9999, Longitude: 135.76}
		rotated := RotateFromNearest(user, stops)
		assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, stopIDs(rotated))
	})

	t.Run("最寄りスポットが先頭になり相対順序は保持される", func(t *testing.T) {
		stops := makeOptimizerStops()
		user := model.Coordinate{Latitude: 35.002, Longitude: 135.76} // s3のすぐそば
		rotated := RotateFromNearest(user, stops)
		assert.Equal(t, []string{"s3", "s4", "s1", "s2"}, stopIDs(rotated))
	})

	t.Run("ローテーション後は訪問順にOrderが振り直される", func(t *testing.T) {
		stops := makeOptimizerStops()
		user := model.Coordinate{Latitude: 35.002, Longitude: 135.76}
		rotated := RotateFromNearest(user, stops)
		for i, stop := range rotated {
			assert.Equal(t, i+1, stop.Order)
		}
	})

	t.Run("単一スポットはそのまま", func(t *testing.T) {
		stops := makeOptimizerStops()[:1]
		rotated := RotateFromNearest(model.Coordinate{Latitude: 35.01, Longitude: 135.76}, stops)
		assert.Equal(t, []string{"s1"}, stopIDs(rotated))
	})
}

func TestShouldOfferOptimization(t *testing.T) {
	t.Run("先頭スポットの近くでは提示しない", func(t *testing.T) {
		stops := makeOptimizerStops()
		user := model.Coordinate{Latitude: 34.9999, Longitude: 135.76}
		assert.False(t, ShouldOfferOptimization(user, stops))
	})

	t.Run("別のスポットが閾値を超えて近ければ提示する", func(t *testing.T) {
		stops := makeOptimizerStops()
		user := model.Coordinate{Latitude: 35.003, Longitude: 135.76} // s4のそば、s1から約330m
		assert.True(t, ShouldOfferOptimization(user, stops))
	})

	t.Run("距離差が閾値以内なら提示しない", func(t *testing.T) {
		stops := makeOptimizerStops()
		// s1とs2の中間（差は約0m〜50m程度）
		user := model.Coordinate{Latitude: 35.0005, Longitude: 135.76}
		assert.False(t, ShouldOfferOptimization(user, stops))
	})
}

func stopIDs(stops []*model.Stop) []string {
	ids := make([]string, len(stops))
	for i, s := range stops {
		ids[i] = s.ID
	}
	return ids
}
