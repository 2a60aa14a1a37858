package model

import "time"

// Coordinate WGS84の緯度経度を表す基本的な型
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// IsValid 緯度経度がWGS84の有効範囲内かチェック
func (c Coordinate) IsValid() bool {
	if c.Latitude < -90 || c.Latitude > 90 {
		return false
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return false
	}
	return true
}

// Geometry GeoJSON POINT 型に対応する構造体（座標は [longitude, latitude]）
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ToCoordinate Geometry を Coordinate に変換
func (g *Geometry) ToCoordinate() Coordinate {
	if g == nil || len(g.Coordinates) < 2 {
		return Coordinate{}
	}
	return Coordinate{
		Latitude:  g.Coordinates[1],
		Longitude: g.Coordinates[0],
	}
}

// ToGeometry Coordinate を GeoJSON POINT に変換
func (c Coordinate) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{c.Longitude, c.Latitude},
	}
}

// LocationFix 位置情報プロバイダから届く1回分の測位結果
type LocationFix struct {
	Coordinate               Coordinate `json:"coordinate"`
	Timestamp                time.Time  `json:"timestamp"`
	HorizontalAccuracyMeters float64    `json:"horizontal_accuracy_meters"`
}

// AuthorizationStatus 位置情報の利用許可状態
type AuthorizationStatus string

const (
	AuthorizationNotDetermined AuthorizationStatus = "not_determined"
	AuthorizationAuthorized    AuthorizationStatus = "authorized"
	AuthorizationDenied        AuthorizationStatus = "denied"
	AuthorizationRestricted    AuthorizationStatus = "restricted"
)

// GeoBoundingBox バックグラウンド位置監視のウェイク領域ヒントに使う境界ボックス
type GeoBoundingBox struct {
	MinLongitude float64 `json:"min_longitude"`
	MinLatitude  float64 `json:"min_latitude"`
	MaxLongitude float64 `json:"max_longitude"`
	MaxLatitude  float64 `json:"max_latitude"`
}
