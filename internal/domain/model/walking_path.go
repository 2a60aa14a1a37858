package model

import "time"

// WalkingPath 経路検索サービスが返す徒歩経路
// SegmentDistancesMeters は入力座標列の隣接区間ごとの距離（入力N点に対しN-1個）
type WalkingPath struct {
	Polyline               string        `json:"polyline"`
	SegmentDistancesMeters []float64     `json:"segment_distances_meters"`
	TotalDuration          time.Duration `json:"total_duration"`
}

// TotalDistanceMeters 全区間の合計距離を返す
func (p *WalkingPath) TotalDistanceMeters() float64 {
	total := 0.0
	for _, d := range p.SegmentDistancesMeters {
		total += d
	}
	return total
}
