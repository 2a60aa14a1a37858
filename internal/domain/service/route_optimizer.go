package service

import (
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/helper"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// OptimizationOfferThresholdMeters 最寄りスポットと先頭スポットの距離差が
// この値を超えたら「近い方から開始する」選択肢をユーザーに提示する
const OptimizationOfferThresholdMeters = 50.0

// RotateFromNearest 現在地から最も近いスポットが先頭になるよう安定ローテーションする
// 残りのスポットの相対順序は保持する（全体の並べ替えではない）
// 「いまいる場所から始める」ためのものであり、最適巡回路の再計算は行わない
// 最寄りが既に先頭の場合は入力と同一の並びを返す
func RotateFromNearest(user model.Coordinate, stops []*model.Stop) []*model.Stop {
	if len(stops) <= 1 {
		return stops
	}

	nearest := helper.NearestStopIndex(user, stops)
	if nearest <= 0 {
		return stops
	}

	rotated := make([]*model.Stop, 0, len(stops))
	rotated = append(rotated, stops[nearest:]...)
	rotated = append(rotated, stops[:nearest]...)

	// ローテーション後の訪問順に合わせてOrderを振り直す
	for i, stop := range rotated {
		stop.Order = i + 1
	}
	return rotated
}

// ShouldOfferOptimization 最適化の選択肢を提示すべきかを判定する
// 最寄りスポットまでの距離が先頭スポットまでの距離より
// 閾値を超えて短い場合のみ提示する
func ShouldOfferOptimization(user model.Coordinate, stops []*model.Stop) bool {
	if len(stops) <= 1 {
		return false
	}

	nearest := helper.NearestStopIndex(user, stops)
	if nearest <= 0 {
		return false
	}

	distToFirst := helper.DistanceMeters(user, stops[0].Coordinate)
	distToNearest := helper.DistanceMeters(user, stops[nearest].Coordinate)
	return distToFirst-distToNearest > OptimizationOfferThresholdMeters
}
