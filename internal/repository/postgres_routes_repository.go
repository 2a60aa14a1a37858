package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	domainRepo "github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
	"github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/database"
)

// PostgresRoutesRepository PostgreSQL（Supabase）からツアールートを読み込むリポジトリ
type PostgresRoutesRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresRoutesRepository 新しいPostgresRoutesRepositoryインスタンスを作成する
func NewPostgresRoutesRepository(client *database.PostgreSQLClient) domainRepo.RoutesRepository {
	return &PostgresRoutesRepository{client: client}
}

// StopResult tour_stopsテーブルの行を受け取るための構造体
type StopResult struct {
	ID                   string
	StopOrder            int
	Name                 string
	Category             sql.NullString
	NarrationRef         string
	AudioDurationSeconds sql.NullInt64
	TriggerRadiusMeters  sql.NullFloat64
	Location             string
}

// ToStop StopResultをmodel.Stopに変換する
func (sr *StopResult) ToStop() (*model.Stop, error) {
	var geometry model.Geometry
	if err := json.Unmarshal([]byte(sr.Location), &geometry); err != nil {
		return nil, fmt.Errorf("location JSONパースエラー: %w", err)
	}

	stop := &model.Stop{
		ID:           sr.ID,
		Order:        sr.StopOrder,
		Coordinate:   geometry.ToCoordinate(),
		Name:         sr.Name,
		NarrationRef: sr.NarrationRef,
	}
	if sr.Category.Valid {
		stop.Category = sr.Category.String
	}
	if sr.AudioDurationSeconds.Valid {
		stop.AudioDurationSeconds = int(sr.AudioDurationSeconds.Int64)
	}
	if sr.TriggerRadiusMeters.Valid {
		stop.TriggerRadiusMeters = sr.TriggerRadiusMeters.Float64
	}
	return stop, nil
}

// GetRoute ルートIDからOrder昇順のスポット列を含むルートを取得する
func (r *PostgresRoutesRepository) GetRoute(ctx context.Context, routeID string) (*model.TourRoute, error) {
	var routeName string
	err := r.client.DB.QueryRowContext(ctx,
		`SELECT name FROM tour_routes WHERE id = $1`, routeID,
	).Scan(&routeName)
	if err == sql.ErrNoRows {
		return nil, model.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ルートの取得に失敗しました: %w", err)
	}

	rows, err := r.client.DB.QueryContext(ctx,
		`SELECT id, stop_order, name, category, narration_ref,
		        audio_duration_seconds, trigger_radius_meters,
		        ST_AsGeoJSON(location)
		 FROM tour_stops
		 WHERE route_id = $1
		 ORDER BY stop_order ASC`, routeID,
	)
	if err != nil {
		return nil, fmt.Errorf("スポットの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var stops []*model.Stop
	for rows.Next() {
		var result StopResult
		if err := rows.Scan(
			&result.ID, &result.StopOrder, &result.Name, &result.Category,
			&result.NarrationRef, &result.AudioDurationSeconds,
			&result.TriggerRadiusMeters, &result.Location,
		); err != nil {
			return nil, fmt.Errorf("スポット行のスキャンに失敗しました: %w", err)
		}
		stop, err := result.ToStop()
		if err != nil {
			return nil, fmt.Errorf("スポット %s の変換に失敗しました: %w", result.ID, err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スポットの読み込み中にエラーが発生しました: %w", err)
	}

	return &model.TourRoute{
		ID:    routeID,
		Name:  routeName,
		Stops: stops,
	}, nil
}
