package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

func TestDistanceMeters(t *testing.T) {
	kyotoStation := model.Coordinate{Latitude: 34.9858, Longitude: 135.7588}
	kinkakuji := model.Coordinate{Latitude: 35.0394, Longitude: 135.7292}

	t.Run("同一地点の距離はゼロ", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceMeters(kyotoStation, kyotoStation))
	})

	t.Run("距離は対称", func(t *testing.T) {
		ab := DistanceMeters(kyotoStation, kinkakuji)
		ba := DistanceMeters(kinkakuji, kyotoStation)
		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("角距離に対して単調増加", func(t *testing.T) {
		near := model.Coordinate{Latitude: 34.9868, Longitude: 135.7588}
		far := model.Coordinate{Latitude: 35.0858, Longitude: 135.7588}
		assert.Less(t, DistanceMeters(kyotoStation, near), DistanceMeters(kyotoStation, far))
	})

	t.Run("既知の2地点間のおおよその距離", func(t *testing.T) {
		// 京都駅〜金閣寺はおよそ6.5km
		d := DistanceMeters(kyotoStation, kinkakuji)
		assert.Greater(t, d, 6000.0)
		assert.Less(t, d, 7000.0)
	})
}

func TestBearingDegrees(t *testing.T) {
	origin := model.Coordinate{Latitude: 35.0, Longitude: 135.7}

	t.Run("真北への方位角は0度", func(t *testing.T) {
		north := model.Coordinate{Latitude: 35.1, Longitude: 135.7}
		assert.InDelta(t, 0.0, BearingDegrees(origin, north), 0.5)
	})

	t.Run("真東への方位角はおよそ90度", func(t *testing.T) {
		east := model.Coordinate{Latitude: 35.0, Longitude: 135.8}
		assert.InDelta(t, 90.0, BearingDegrees(origin, east), 0.5)
	})
}

func TestNearestStopIndex(t *testing.T) {
	user := model.Coordinate{Latitude: 35.0, Longitude: 135.76}
	stops := []*model.Stop{
		{ID: "s1", Coordinate: model.Coordinate{Latitude: 35.01, Longitude: 135.76}},
		{ID: "s2", Coordinate: model.Coordinate{Latitude: 35.001, Longitude: 135.76}},
		{ID: "s3", Coordinate: model.Coordinate{Latitude: 35.02, Longitude: 135.76}},
	}

	t.Run("最も近いスポットのインデックスを返す", func(t *testing.T) {
		assert.Equal(t, 1, NearestStopIndex(user, stops))
	})

	t.Run("空のスポット列では-1", func(t *testing.T) {
		assert.Equal(t, -1, NearestStopIndex(user, nil))
	})
}

func TestStraightLineSegments(t *testing.T) {
	user := model.Coordinate{Latitude: 35.0, Longitude: 135.76}
	stops := []*model.Stop{
		{ID: "s1", Coordinate: model.Coordinate{Latitude: 35.001, Longitude: 135.76}},
		{ID: "s2", Coordinate: model.Coordinate{Latitude: 35.002, Longitude: 135.76}},
	}

	segments := StraightLineSegments(user, stops)

	t.Run("要素数はスポット数と一致する", func(t *testing.T) {
		assert.Len(t, segments, len(stops))
	})

	t.Run("先頭はユーザーから最初のスポットまでの距離", func(t *testing.T) {
		assert.InDelta(t, DistanceMeters(user, stops[0].Coordinate), segments[0], 1e-9)
	})

	t.Run("全ての区間距離は非負", func(t *testing.T) {
		for _, d := range segments {
			assert.GreaterOrEqual(t, d, 0.0)
		}
	})
}
