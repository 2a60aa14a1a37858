package service

import (
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/helper"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
)

// SignalKind 近接判定の結果種別
type SignalKind string

const (
	// SignalApproaching まだトリガー半径の外にいる
	SignalApproaching SignalKind = "approaching"
	// SignalArrived トリガー半径内に初めて入った
	SignalArrived SignalKind = "arrived"
)

// Signal 近接判定の結果
type Signal struct {
	Kind           SignalKind
	DistanceMeters float64
}

// ProximityEvaluator スポットごとの到着判定を行う
// 一度Arrivedを発火したスポットには、GPSの揺らぎで境界を出入りしても
// 二度と発火しない（重複した音声再生トリガーの防止）
// 判定に使うのはスポットごとの精密なトリガー半径のみで、
// 広域のウェイク半径はこのコンポーネントでは評価しない
type ProximityEvaluator struct {
	firedStopIDs map[string]struct{}
}

// NewProximityEvaluator 新しいProximityEvaluatorを作成する
func NewProximityEvaluator() *ProximityEvaluator {
	return &ProximityEvaluator{
		firedStopIDs: make(map[string]struct{}),
	}
}

// Evaluate 現在地と目標スポットから到着判定を行う
func (e *ProximityEvaluator) Evaluate(user model.Coordinate, stop *model.Stop) Signal {
	distance := helper.DistanceMeters(user, stop.Coordinate)

	if _, fired := e.firedStopIDs[stop.ID]; fired {
		return Signal{Kind: SignalApproaching, DistanceMeters: distance}
	}

	if distance <= stop.EffectiveTriggerRadius() {
		e.firedStopIDs[stop.ID] = struct{}{}
		return Signal{Kind: SignalArrived, DistanceMeters: distance}
	}

	return Signal{Kind: SignalApproaching, DistanceMeters: distance}
}

// MarkFired 指定スポットを発火済みとして記録する
// スナップショットからの再開時に訪問済みスポットの再発火を防ぐために使う
func (e *ProximityEvaluator) MarkFired(stopID string) {
	e.firedStopIDs[stopID] = struct{}{}
}
