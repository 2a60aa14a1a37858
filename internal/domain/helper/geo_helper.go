package helper

import (
	"math"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters 2地点間の大円距離を計算する (メートル)
// 純粋関数であり、範囲外の座標は呼び出し側の契約違反として扱う
func DistanceMeters(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lng1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lng2 := b.Longitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// BearingDegrees 地点aから地点bへの方位角を計算する (0〜360度)
func BearingDegrees(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// NearestStopIndex 基準地点から最も近いスポットのインデックスを返す
// スポットが空の場合は -1
func NearestStopIndex(origin model.Coordinate, stops []*model.Stop) int {
	nearest := -1
	minDist := math.MaxFloat64
	for i, stop := range stops {
		d := DistanceMeters(origin, stop.Coordinate)
		if d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// StraightLineSegments 現在地→先頭スポットと各隣接スポット間の直線距離列を計算する
// 経路検索サービスが結果を返すまでの初期値として使用する
// 戻り値の要素数はスポット数と一致する（先頭がユーザー区間）
func StraightLineSegments(user model.Coordinate, stops []*model.Stop) []float64 {
	if len(stops) == 0 {
		return nil
	}
	segments := make([]float64, len(stops))
	segments[0] = DistanceMeters(user, stops[0].Coordinate)
	for i := 1; i < len(stops); i++ {
		segments[i] = DistanceMeters(stops[i-1].Coordinate, stops[i].Coordinate)
	}
	return segments
}

// StopChainSegments スポット間のみの直線距離列を計算する（ユーザー位置が未知の再開時用）
// 先頭要素は0で埋め、次回の測位で経路再計算が走るまでのつなぎとする
func StopChainSegments(stops []*model.Stop) []float64 {
	if len(stops) == 0 {
		return nil
	}
	segments := make([]float64, len(stops))
	for i := 1; i < len(stops); i++ {
		segments[i] = DistanceMeters(stops[i-1].Coordinate, stops[i].Coordinate)
	}
	return segments
}
