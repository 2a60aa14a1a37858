package repository

import (
	"context"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// DirectionsProvider 経路検索サービスのインターフェース
// 表示用の距離計算にのみ使い、到着判定には使わない
type DirectionsProvider interface {
	// ComputeWalkingPath 順序付き座標列の徒歩経路（ポリラインと区間距離）を取得する
	// 非同期呼び出し前提であり、ctxのキャンセルで中断できること
	ComputeWalkingPath(ctx context.Context, coordinates []model.Coordinate) (*model.WalkingPath, error)
}
