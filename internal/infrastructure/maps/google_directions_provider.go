package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した徒歩経路検索の実装
// リクエストはctxのキャンセルで中断できる
type GoogleDirectionsProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string) *GoogleDirectionsProvider {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ComputeWalkingPath は順序付き座標列の徒歩経路を取得する
// 戻り値の区間距離は入力N点に対してN-1個（ユーザー→スポット、スポット→スポット）
func (g *GoogleDirectionsProvider) ComputeWalkingPath(ctx context.Context, coordinates []model.Coordinate) (*model.WalkingPath, error) {
	if len(coordinates) < 2 {
		return nil, errors.New("経路検索には2点以上の座標が必要です")
	}

	// 1. APIリクエストURLを構築
	reqURL := g.buildURL(coordinates)

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp googleRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	// 4. レッグごとの距離を抽出してドメインモデルに変換
	firstRoute := apiResp.Routes[0]
	segmentDistances := make([]float64, 0, len(firstRoute.Legs))
	var totalDurationSec int
	for _, leg := range firstRoute.Legs {
		segmentDistances = append(segmentDistances, float64(leg.Distance.Value))
		totalDurationSec += leg.Duration.Value
	}

	if len(segmentDistances) != len(coordinates)-1 {
		return nil, fmt.Errorf("APIのレッグ数が座標列と一致しません: %d != %d", len(segmentDistances), len(coordinates)-1)
	}

	return &model.WalkingPath{
		Polyline:               firstRoute.OverviewPolyline.Points,
		SegmentDistancesMeters: segmentDistances,
		TotalDuration:          time.Duration(totalDurationSec) * time.Second,
	}, nil
}

func (g *GoogleDirectionsProvider) buildURL(coordinates []model.Coordinate) string {
	baseURL := "https://maps.googleapis.com/maps/api/directions/json"
	params := url.Values{}

	origin := coordinates[0]
	destination := coordinates[len(coordinates)-1]
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))

	// 中間の座標を経由地として設定
	if len(coordinates) > 2 {
		viaPoints := make([]string, 0, len(coordinates)-2)
		for _, c := range coordinates[1 : len(coordinates)-1] {
			viaPoints = append(viaPoints, fmt.Sprintf("%f,%f", c.Latitude, c.Longitude))
		}
		params.Set("waypoints", strings.Join(viaPoints, "|"))
	}

	params.Set("mode", "walking")
	params.Set("key", g.apiKey)

	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleRouteResponse struct {
	Routes       []route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
type route struct {
	Legs             []leg            `json:"legs"`
	OverviewPolyline overviewPolyline `json:"overview_polyline"`
}
type leg struct {
	Distance distance `json:"distance"`
	Duration duration `json:"duration"`
}
type distance struct {
	Value int `json:"value"` // meters
}
type duration struct {
	Value int `json:"value"` // seconds
}
type overviewPolyline struct {
	Points string `json:"points"`
}
