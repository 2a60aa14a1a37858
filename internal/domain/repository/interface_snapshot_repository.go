package repository

import (
	"context"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// SnapshotRepository 進行中セッションの再開用スナップショットを保存する永続ストア
// デバイスごとに単一スロット（履歴は持たない）
type SnapshotRepository interface {
	// Save スナップショットを上書き保存する
	Save(ctx context.Context, deviceID string, snapshot *model.ActiveRouteSnapshot) error

	// Load 最新のスナップショットを取得する
	// 保存されていない場合は model.ErrNoSnapshot を返す
	Load(ctx context.Context, deviceID string) (*model.ActiveRouteSnapshot, error)

	// Clear スナップショットを削除する（終了・完走時に呼ばれる）
	Clear(ctx context.Context, deviceID string) error
}
