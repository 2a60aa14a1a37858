package repository

import (
	"github.com/paulmach/orb"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// CoordinateToGeoPoint model.Coordinate を PostGIS POINT 形式に変換する
func CoordinateToGeoPoint(c model.Coordinate) *GeoPoint {
	point := orb.Point{c.Longitude, c.Latitude}
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}

// GeoPointToCoordinate PostGIS POINT を model.Coordinate に変換する
func GeoPointToCoordinate(geoPoint *GeoPoint) model.Coordinate {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return model.Coordinate{}
	}
	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}
	return model.Coordinate{
		Latitude:  point.Lat(),
		Longitude: point.Lon(),
	}
}

// wakeRegionPaddingDegrees ウェイク領域の余白（約111m、ウェイク半径100m相当）
const wakeRegionPaddingDegrees = 0.001

// WakeRegionBound 未訪問スポット全体を覆う境界ボックスを作成する
// クライアントがバックグラウンド位置監視を起こすためのヒントであり、
// 到着判定には使用しない
func WakeRegionBound(stops []*model.Stop) *model.GeoBoundingBox {
	var bound orb.Bound
	initialized := false

	for _, stop := range stops {
		if stop.Visited {
			continue
		}
		point := orb.Point{stop.Coordinate.Longitude, stop.Coordinate.Latitude}
		if !initialized {
			bound = orb.Bound{Min: point, Max: point}
			initialized = true
			continue
		}
		bound = bound.Extend(point)
	}

	if !initialized {
		return nil
	}

	bound = bound.Pad(wakeRegionPaddingDegrees)

	return &model.GeoBoundingBox{
		MinLongitude: bound.Min.Lon(),
		MinLatitude:  bound.Min.Lat(),
		MaxLongitude: bound.Max.Lon(),
		MaxLatitude:  bound.Max.Lat(),
	}
}
