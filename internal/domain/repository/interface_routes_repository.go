package repository

import (
	"context"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// RoutesRepository ツアールートとスポット列を提供するデータストアのインターフェース
// コアからは読み取り専用
type RoutesRepository interface {
	// GetRoute ルートIDからOrder昇順のスポット列を含むルートを取得する
	// 存在しない場合は model.ErrRouteNotFound を返す
	GetRoute(ctx context.Context, routeID string) (*model.TourRoute, error)
}
