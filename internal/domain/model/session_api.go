package model

import "time"

// StartSessionRequest ツアーセッション開始リクエスト
type StartSessionRequest struct {
	UserLocation *Coordinate `json:"user_location" binding:"required"`
	Optimized    bool        `json:"optimized"`
}

// LocationUpdateRequest 位置情報プロバイダからの測位結果の取り込みリクエスト
// 赤道・本初子午線上の0値を弾かないようrequiredは付けず、範囲のみ検証する
type LocationUpdateRequest struct {
	Latitude                 float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude                float64   `json:"longitude" binding:"min=-180,max=180"`
	Timestamp                time.Time `json:"timestamp"`
	HorizontalAccuracyMeters float64   `json:"horizontal_accuracy_meters"`
}

// ToLocationFix リクエストをドメインのLocationFixに変換する
func (r *LocationUpdateRequest) ToLocationFix() LocationFix {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return LocationFix{
		Coordinate: Coordinate{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		Timestamp:                ts,
		HorizontalAccuracyMeters: r.HorizontalAccuracyMeters,
	}
}

// StopView レスポンスに含めるスポット情報
type StopView struct {
	ID                  string     `json:"id"`
	Order               int        `json:"order"`
	Name                string     `json:"name"`
	Category            string     `json:"category"`
	Coordinate          Coordinate `json:"coordinate"`
	NarrationRef        string     `json:"narration_ref"`
	TriggerRadiusMeters float64    `json:"trigger_radius_meters"`
	Visited             bool       `json:"visited"`
}

// NewStopView StopからStopViewを構築する
func NewStopView(stop *Stop) *StopView {
	if stop == nil {
		return nil
	}
	return &StopView{
		ID:                  stop.ID,
		Order:               stop.Order,
		Name:                stop.Name,
		Category:            stop.Category,
		Coordinate:          stop.Coordinate,
		NarrationRef:        stop.NarrationRef,
		TriggerRadiusMeters: stop.EffectiveTriggerRadius(),
		Visited:             stop.Visited,
	}
}

// SessionStateResponse UIが表示に使うセッションの派生状態
type SessionStateResponse struct {
	SessionID            string          `json:"session_id"`
	RouteID              string          `json:"route_id"`
	RouteName            string          `json:"route_name"`
	Status               SessionStatus   `json:"status"`
	StartedAt            time.Time       `json:"started_at"`
	TargetKind           TargetKind      `json:"target_kind"`
	CurrentStop          *StopView       `json:"current_stop,omitempty"`
	VisitedCount         int             `json:"visited_count"`
	TotalStops           int             `json:"total_stops"`
	SegmentDistances     []float64       `json:"segment_distances_meters"`
	DistanceWalkedMeters float64         `json:"distance_walked_meters"`
	RoutePolyline        string          `json:"route_polyline,omitempty"`
	WakeRegion           *GeoBoundingBox `json:"wake_region,omitempty"`
}

// OptimizationOfferResponse 「近いスポットから開始するか」の選択肢提示レスポンス
type OptimizationOfferResponse struct {
	RouteID                     string  `json:"route_id"`
	OfferOptimization           bool    `json:"offer_optimization"`
	DistanceToFirstStopMeters   float64 `json:"distance_to_first_stop_meters"`
	DistanceToNearestStopMeters float64 `json:"distance_to_nearest_stop_meters"`
	NearestStopID               string  `json:"nearest_stop_id,omitempty"`
}
