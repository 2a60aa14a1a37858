package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/juanrafernandez/AudioCity-sub000/internal/database"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/service"
	"github.com/juanrafernandez/AudioCity-sub000/internal/handler"
	infraDB "github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/database"
	infraFirestore "github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/firestore"
	"github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/maps"
	repoImpl "github.com/juanrafernandez/AudioCity-sub000/internal/repository"
	"github.com/juanrafernandez/AudioCity-sub000/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	ctx := context.Background()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: FIRESTORE_PROJECT_ID, SUPABASE_URL, SUPABASE_ANON_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	// ルートデータストアの選択（デフォルトはSupabase REST、postgresで直接接続）
	routesRepo, err := buildRoutesRepository()
	if err != nil {
		log.Fatalf("ルートデータストアの初期化失敗: %v", err)
	}

	fmt.Println("Initializing Firestore client...")
	firestoreClient, err := infraFirestore.NewFirestoreClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
	}
	defer firestoreClient.Close()
	snapshotRepo := repoImpl.NewFirestoreSnapshotRepository(firestoreClient.GetClient())

	// 経路検索プロバイダ（APIキー未設定なら距離表示の更新をスキップして動作継続）
	var directions repository.DirectionsProvider
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		directions = maps.NewGoogleDirectionsProvider(apiKey)
	} else {
		log.Printf("⚠️ GOOGLE_MAPS_API_KEYが未設定のため経路再計算を無効化します")
	}

	// ナレーションプレイヤーはユースケース側がデバイスごとに構築し、
	// 再生状態のコールバックをセッションへ接続する
	sessionUseCase := usecase.NewTourSessionUseCase(service.TourSessionDeps{
		Routes:     routesRepo,
		Snapshots:  snapshotRepo,
		Directions: directions,
	})

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to AudioCity tour engine!")
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "AudioCity"})
	})

	sessionHandler := handler.NewTourSessionHandler(sessionUseCase)
	sessionHandler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("AudioCity tour engine starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}

// buildRoutesRepository 環境変数ROUTE_STOREに応じてルートデータストアを構築する
func buildRoutesRepository() (repository.RoutesRepository, error) {
	if os.Getenv("ROUTE_STORE") == "postgres" {
		fmt.Println("Initializing PostgreSQL client...")
		pgClient, err := infraDB.NewPostgreSQLClient()
		if err != nil {
			return nil, err
		}
		if err := pgClient.HealthCheck(); err != nil {
			return nil, err
		}
		fmt.Println("✅ PostgreSQL connection successful!")
		return repoImpl.NewPostgresRoutesRepository(pgClient), nil
	}

	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		return nil, err
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		return nil, err
	}
	fmt.Println("✅ Supabase connection successful!")
	return repoImpl.NewSupabaseRoutesRepository(supabaseClient), nil
}
