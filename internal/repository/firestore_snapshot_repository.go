package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	domainRepo "github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
)

const activeRouteCollection = "activeRouteStates"

// FirestoreSnapshotRepository Firestoreを使用したセッションスナップショットの永続化
// デバイスごとに1ドキュメントの単一スロットで、Setによる上書きは
// ドキュメント単位でアトミックに行われる
type FirestoreSnapshotRepository struct {
	client *firestore.Client
}

// NewFirestoreSnapshotRepository 新しいFirestoreSnapshotRepositoryインスタンスを作成する
func NewFirestoreSnapshotRepository(client *firestore.Client) domainRepo.SnapshotRepository {
	return &FirestoreSnapshotRepository{client: client}
}

// firestoreSnapshot Firestore保存用のスナップショット表現
// started_at はISO-8601文字列として往復させる
type firestoreSnapshot struct {
	RouteID        string   `firestore:"route_id"`
	RouteName      string   `firestore:"route_name"`
	VisitedStopIDs []string `firestore:"visited_stop_ids"`
	StartedAt      string   `firestore:"started_at"`
}

// Save スナップショットを上書き保存する
func (r *FirestoreSnapshotRepository) Save(ctx context.Context, deviceID string, snapshot *model.ActiveRouteSnapshot) error {
	doc := firestoreSnapshot{
		RouteID:        snapshot.RouteID,
		RouteName:      snapshot.RouteName,
		VisitedStopIDs: snapshot.VisitedStopIDs,
		StartedAt:      snapshot.StartedAt.Format(time.RFC3339),
	}

	_, err := r.client.Collection(activeRouteCollection).Doc(deviceID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("スナップショットの保存に失敗しました: %w", err)
	}

	log.Printf("💾 スナップショット保存: ルート %s (訪問済み %d件)", snapshot.RouteID, len(snapshot.VisitedStopIDs))
	return nil
}

// Load 最新のスナップショットを取得する
func (r *FirestoreSnapshotRepository) Load(ctx context.Context, deviceID string) (*model.ActiveRouteSnapshot, error) {
	doc, err := r.client.Collection(activeRouteCollection).Doc(deviceID).Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, model.ErrNoSnapshot
		}
		return nil, fmt.Errorf("スナップショットの取得に失敗しました: %w", err)
	}

	var data firestoreSnapshot
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("スナップショットの変換に失敗しました: %w", err)
	}

	startedAt, err := time.Parse(time.RFC3339, data.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("開始時刻のパースに失敗しました: %w", err)
	}

	return &model.ActiveRouteSnapshot{
		RouteID:        data.RouteID,
		RouteName:      data.RouteName,
		VisitedStopIDs: data.VisitedStopIDs,
		StartedAt:      startedAt,
	}, nil
}

// Clear スナップショットを削除する
func (r *FirestoreSnapshotRepository) Clear(ctx context.Context, deviceID string) error {
	_, err := r.client.Collection(activeRouteCollection).Doc(deviceID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("スナップショットの削除に失敗しました: %w", err)
	}
	log.Printf("🗑️ スナップショット削除: デバイス %s", deviceID)
	return nil
}
