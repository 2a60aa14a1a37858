package model

const (
	// DefaultTriggerRadiusMeters データ側で半径未指定のスポットに適用する到着判定半径
	DefaultTriggerRadiusMeters = 25.0

	// WakeRadiusMeters バックグラウンド位置監視を起こすための広域半径
	// 到着判定には一切使用しない（クライアント向けヒントのみ）
	WakeRadiusMeters = 100.0
)

// Stop 音声ナレーション付きツアーの1スポット
type Stop struct {
	ID                   string     `json:"id" db:"id"`
	Order                int        `json:"order" db:"stop_order"` // 1始まり、ルート内で一意
	Coordinate           Coordinate `json:"coordinate"`
	Name                 string     `json:"name" db:"name"`
	Category             string     `json:"category" db:"category"`
	NarrationRef         string     `json:"narration_ref" db:"narration_ref"`
	AudioDurationSeconds int        `json:"audio_duration_seconds" db:"audio_duration_seconds"`
	TriggerRadiusMeters  float64    `json:"trigger_radius_meters" db:"trigger_radius_meters"`
	Visited              bool       `json:"visited"`
}

// EffectiveTriggerRadius 到着判定に使う半径を返す（未設定ならデフォルト25m）
func (s *Stop) EffectiveTriggerRadius() float64 {
	if s.TriggerRadiusMeters <= 0 {
		return DefaultTriggerRadiusMeters
	}
	return s.TriggerRadiusMeters
}

// TourRoute ルートデータストアから読み込んだツアールート（Order昇順）
type TourRoute struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Stops []*Stop `json:"stops"`
}

// CloneStops セッション専用にスポット列を複製する
// Visitedフラグはセッションの所有物であり、元データを汚染しないため
func (r *TourRoute) CloneStops() []*Stop {
	cloned := make([]*Stop, len(r.Stops))
	for i, s := range r.Stops {
		copied := *s
		cloned[i] = &copied
	}
	return cloned
}
