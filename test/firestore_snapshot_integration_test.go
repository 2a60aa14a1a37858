package test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	"github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/firestore"
	"github.com/juanrafernandez/AudioCity-sub000/internal/repository"
)

func TestFirestoreSnapshotRepository(t *testing.T) {
	setupTestEnvironment()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが未設定のためスキップ")
	}

	log.Printf("🔧 テスト設定:")
	log.Printf("   FIRESTORE_PROJECT_ID: %s", projectID)

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, projectID)
	if err != nil {
		t.Fatalf("Firestoreクライアントの初期化に失敗: %v", err)
	}
	defer client.Close()

	repo := repository.NewFirestoreSnapshotRepository(client.GetClient())
	deviceID := "integration-test-device"

	snapshot := &model.ActiveRouteSnapshot{
		RouteID:        "integration-test-route",
		RouteName:      "結合テスト用ルート",
		VisitedStopIDs: []string{"stop-1", "stop-2"},
		StartedAt:      time.Now().UTC().Truncate(time.Second),
	}

	// 保存 → 取得 → 削除の往復を確認する
	if err := repo.Save(ctx, deviceID, snapshot); err != nil {
		t.Fatalf("スナップショットの保存に失敗: %v", err)
	}
	log.Println("✅ スナップショット保存成功")

	loaded, err := repo.Load(ctx, deviceID)
	if err != nil {
		t.Fatalf("スナップショットの取得に失敗: %v", err)
	}
	if loaded.RouteID != snapshot.RouteID {
		t.Errorf("RouteIDが一致しません: got %s, want %s", loaded.RouteID, snapshot.RouteID)
	}
	if len(loaded.VisitedStopIDs) != len(snapshot.VisitedStopIDs) {
		t.Errorf("訪問済みスポット数が一致しません: got %d, want %d", len(loaded.VisitedStopIDs), len(snapshot.VisitedStopIDs))
	}
	if !loaded.StartedAt.Equal(snapshot.StartedAt) {
		t.Errorf("開始時刻が一致しません: got %v, want %v", loaded.StartedAt, snapshot.StartedAt)
	}
	log.Printf("✅ スナップショット取得成功 (訪問済み: %d件)", len(loaded.VisitedStopIDs))

	if err := repo.Clear(ctx, deviceID); err != nil {
		t.Fatalf("スナップショットの削除に失敗: %v", err)
	}

	if _, err := repo.Load(ctx, deviceID); !errors.Is(err, model.ErrNoSnapshot) {
		t.Errorf("削除後はErrNoSnapshotを期待: got %v", err)
	}
	log.Println("✅ FirestoreSnapshotRepositoryテスト完了")
}
