package model

import "time"

// SessionStatus ルートセッションのライフサイクル状態
type SessionStatus string

const (
	StatusIdle      SessionStatus = "idle"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusEnded     SessionStatus = "ended"
)

// RouteSession 進行中のツアーセッション
// ライフタイム中はセッション状態機械が単独で所有する
type RouteSession struct {
	SessionID    string        `json:"session_id"`
	RouteID      string        `json:"route_id"`
	RouteName    string        `json:"route_name"`
	OrderedStops []*Stop       `json:"ordered_stops"`
	StartedAt    time.Time     `json:"started_at"`
	Status       SessionStatus `json:"status"`
}

// TargetKind 「次に向かうスポット」の状態種別
// ネストしたOptionalの代わりに網羅的に場合分けできる和型として表現する
type TargetKind string

const (
	TargetNone       TargetKind = "none"        // アクティブなセッションなし
	TargetStop       TargetKind = "stop"        // 次の未訪問スポットあり
	TargetAllVisited TargetKind = "all_visited" // セッションはあるが全スポット訪問済み
)

// CurrentTarget 現在の目標スポットの状態
type CurrentTarget struct {
	Kind TargetKind
	Stop *Stop // KindがTargetStopの場合のみ非nil
}

// SessionEventType セッション状態機械が発行するイベント種別
type SessionEventType string

const (
	EventSessionStarted    SessionEventType = "session_started"
	EventSessionRestored   SessionEventType = "session_restored"
	EventStopArrived       SessionEventType = "stop_arrived"
	EventDistanceUpdated   SessionEventType = "distance_updated"
	EventSegmentsRefreshed SessionEventType = "segments_refreshed"
	EventSessionCompleted  SessionEventType = "session_completed"
	EventSessionEnded      SessionEventType = "session_ended"
)

// SessionEvent 状態遷移をUI層へ通知する型付きイベント
// UI層はチャネルを購読して現在地・次スポット・距離の表示を更新する
type SessionEvent struct {
	Type                 SessionEventType `json:"type"`
	StopID               string           `json:"stop_id,omitempty"`
	StopName             string           `json:"stop_name,omitempty"`
	DistanceToStopMeters float64          `json:"distance_to_stop_meters,omitempty"`
	VisitedCount         int              `json:"visited_count"`
	Status               SessionStatus    `json:"status"`
}
