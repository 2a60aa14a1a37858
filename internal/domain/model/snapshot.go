package model

import "time"

// ActiveRouteSnapshot アプリ強制終了後の再開に必要な最小限の永続状態
// 状態遷移のたびに単一スロットへ上書き保存され、終了・完走時に削除される
type ActiveRouteSnapshot struct {
	RouteID        string    `json:"route_id" firestore:"route_id"`
	RouteName      string    `json:"route_name" firestore:"route_name"`
	VisitedStopIDs []string  `json:"visited_stop_ids" firestore:"visited_stop_ids"`
	StartedAt      time.Time `json:"started_at" firestore:"started_at"`
}

// NewActiveRouteSnapshot セッションの現在状態から再開用スナップショットを構築する
func NewActiveRouteSnapshot(session *RouteSession) *ActiveRouteSnapshot {
	visited := make([]string, 0, len(session.OrderedStops))
	for _, stop := range session.OrderedStops {
		if stop.Visited {
			visited = append(visited, stop.ID)
		}
	}
	return &ActiveRouteSnapshot{
		RouteID:        session.RouteID,
		RouteName:      session.RouteName,
		VisitedStopIDs: visited,
		StartedAt:      session.StartedAt,
	}
}
