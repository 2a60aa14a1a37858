package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/juanrafernandez/AudioCity-sub000/internal/database"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	domainRepo "github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
)

// SupabaseRoutesRepository Supabase REST経由でツアールートを読み込むリポジトリ
type SupabaseRoutesRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseRoutesRepository 新しいSupabaseRoutesRepositoryインスタンスを作成する
func NewSupabaseRoutesRepository(client *database.SupabaseClient) domainRepo.RoutesRepository {
	return &SupabaseRoutesRepository{client: client}
}

// routeRow tour_routesテーブルの行
type routeRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// stopRow tour_stopsテーブルの行
type stopRow struct {
	ID                   string          `json:"id"`
	RouteID              string          `json:"route_id"`
	StopOrder            int             `json:"stop_order"`
	Name                 string          `json:"name"`
	Category             string          `json:"category"`
	NarrationRef         string          `json:"narration_ref"`
	AudioDurationSeconds int             `json:"audio_duration_seconds"`
	TriggerRadiusMeters  *float64        `json:"trigger_radius_meters"`
	Location             *model.Geometry `json:"location"`
}

func (row *stopRow) toStop() *model.Stop {
	stop := &model.Stop{
		ID:                   row.ID,
		Order:                row.StopOrder,
		Coordinate:           row.Location.ToCoordinate(),
		Name:                 row.Name,
		Category:             row.Category,
		NarrationRef:         row.NarrationRef,
		AudioDurationSeconds: row.AudioDurationSeconds,
	}
	if row.TriggerRadiusMeters != nil {
		stop.TriggerRadiusMeters = *row.TriggerRadiusMeters
	}
	return stop
}

// GetRoute ルートIDからOrder昇順のスポット列を含むルートを取得する
func (r *SupabaseRoutesRepository) GetRoute(ctx context.Context, routeID string) (*model.TourRoute, error) {
	routeData, _, err := r.client.GetClient().From("tour_routes").
		Select("id,name", "exact", false).
		Eq("id", routeID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("ルートの取得失敗: %w", err)
	}

	var routes []routeRow
	if err := json.Unmarshal(routeData, &routes); err != nil {
		return nil, fmt.Errorf("ルートのJSONアンマーシャル失敗: %w", err)
	}
	if len(routes) == 0 {
		return nil, model.ErrRouteNotFound
	}

	stopData, _, err := r.client.GetClient().From("tour_stops").
		Select("*", "exact", false).
		Eq("route_id", routeID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("スポットの取得失敗: %w", err)
	}

	var rows []stopRow
	if err := json.Unmarshal(stopData, &rows); err != nil {
		return nil, fmt.Errorf("スポットのJSONアンマーシャル失敗: %w", err)
	}

	// 取得後にstop_orderでソートして訪問順を保証する
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StopOrder < rows[j].StopOrder
	})

	stops := make([]*model.Stop, 0, len(rows))
	for i := range rows {
		stops = append(stops, rows[i].toStop())
	}

	return &model.TourRoute{
		ID:    routes[0].ID,
		Name:  routes[0].Name,
		Stops: stops,
	}, nil
}
