package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/helper"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
)

const (
	// defaultRecomputeInterval 経路検索サービス呼び出しのスロットル間隔
	// 測位のたびではなく、この間隔で1回だけ区間距離を再計算する
	defaultRecomputeInterval = 30 * time.Second

	// defaultMaxAccuracyMeters これを超える水平精度の測位は誤到着防止のため無視する
	defaultMaxAccuracyMeters = 50.0

	// recomputeTimeout 1回の経路再計算に許す最大時間
	recomputeTimeout = 15 * time.Second

	eventBufferSize = 32
)

// TourSessionDeps TourSessionに注入する外部コラボレーター
// シングルトン参照ではなく、アプリ側で一度構築して渡す
type TourSessionDeps struct {
	Routes     repository.RoutesRepository
	Snapshots  repository.SnapshotRepository
	Directions repository.DirectionsProvider
	Audio      repository.AudioPlayer

	// RecomputeInterval 経路再計算のスロットル間隔（0ならデフォルト30秒）
	RecomputeInterval time.Duration
	// MaxAccuracyMeters 測位を採用する水平精度の上限（0ならデフォルト50m）
	MaxAccuracyMeters float64
}

// TourSession ルートセッションの状態機械
// Idle → Active → {Completed, Ended} のライフサイクルを単独で所有し、
// 測位・音声・ユーザー操作による全ての変更をミューテックスで直列化する
type TourSession struct {
	deviceID string
	deps     TourSessionDeps

	mu               sync.Mutex
	status           model.SessionStatus
	session          *model.RouteSession
	progress         *ProgressTracker
	proximity        *ProximityEvaluator
	segmentDistances []float64
	routePolyline    string
	lastFix          *model.LocationFix
	authorization    model.AuthorizationStatus
	audioPlaying     bool
	audioPaused      bool

	lastRecomputeAt time.Time
	recomputeCancel context.CancelFunc
	recomputeGen    uint64

	events chan model.SessionEvent
}

// NewTourSession 新しいセッション所有者を作成する（初期状態はIdle）
func NewTourSession(deviceID string, deps TourSessionDeps) *TourSession {
	if deps.RecomputeInterval <= 0 {
		deps.RecomputeInterval = defaultRecomputeInterval
	}
	if deps.MaxAccuracyMeters <= 0 {
		deps.MaxAccuracyMeters = defaultMaxAccuracyMeters
	}
	return &TourSession{
		deviceID:      deviceID,
		deps:          deps,
		status:        model.StatusIdle,
		authorization: model.AuthorizationNotDetermined,
		events:        make(chan model.SessionEvent, eventBufferSize),
	}
}

// Events UI層が購読する型付きイベントのチャネルを返す
func (s *TourSession) Events() <-chan model.SessionEvent {
	return s.events
}

// Start ルートセッションを開始する (Idle/Ended/Completed → Active)
// 既にActiveなセッションがある場合は model.ErrSessionAlreadyActive を返し、
// 既存セッションには一切触れない
func (s *TourSession) Start(ctx context.Context, routeID string, userLocation model.Coordinate, optimized bool) (*model.RouteSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.StatusActive {
		return nil, model.ErrSessionAlreadyActive
	}

	route, err := s.loadValidRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	stops := route.CloneStops()
	if optimized {
		stops = RotateFromNearest(userLocation, stops)
	}

	session := &model.RouteSession{
		SessionID:    uuid.New().String(),
		RouteID:      route.ID,
		RouteName:    route.Name,
		OrderedStops: stops,
		StartedAt:    time.Now(),
		Status:       model.StatusActive,
	}

	// 初回スナップショットが書けない場合は部分的なセッションを作らない
	if err := s.deps.Snapshots.Save(ctx, s.deviceID, model.NewActiveRouteSnapshot(session)); err != nil {
		return nil, fmt.Errorf("初回スナップショットの保存に失敗: %w", err)
	}

	s.session = session
	s.progress = NewProgressTracker(stops)
	s.proximity = NewProximityEvaluator()
	s.segmentDistances = helper.StraightLineSegments(userLocation, s.progress.Stops())
	s.routePolyline = ""
	s.lastFix = nil
	s.status = model.StatusActive
	s.lastRecomputeAt = time.Time{}

	log.Printf("🚀 ツアーセッション開始: %s (ルート: %s, スポット数: %d, 最適化: %v)",
		session.SessionID, route.Name, len(stops), optimized)

	s.emitLocked(model.SessionEvent{Type: model.EventSessionStarted})
	s.maybeRecomputeLocked(userLocation)

	return session, nil
}

// Restore スナップショットからセッションを再開する (Idle → Active)
// 参照先のルートが読み込めない場合は失敗し、部分的なセッションは作らない
func (s *TourSession) Restore(ctx context.Context) (*model.RouteSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.StatusActive {
		return nil, model.ErrSessionAlreadyActive
	}

	snapshot, err := s.deps.Snapshots.Load(ctx, s.deviceID)
	if err != nil {
		return nil, err
	}

	route, err := s.loadValidRoute(ctx, snapshot.RouteID)
	if err != nil {
		return nil, fmt.Errorf("スナップショットが参照するルートを復元できません: %w", err)
	}

	stops := route.CloneStops()
	progress := NewProgressTracker(stops)
	proximity := NewProximityEvaluator()
	for _, stopID := range snapshot.VisitedStopIDs {
		progress.MarkVisited(stopID)
		proximity.MarkFired(stopID)
	}

	session := &model.RouteSession{
		SessionID:    uuid.New().String(),
		RouteID:      route.ID,
		RouteName:    snapshot.RouteName,
		OrderedStops: progress.Stops(),
		StartedAt:    snapshot.StartedAt,
		Status:       model.StatusActive,
	}

	s.session = session
	s.progress = progress
	s.proximity = proximity
	// 現在地が未知のため、次回の測位で経路再計算が走るまでスポット間の直線距離でつなぐ
	s.segmentDistances = helper.StopChainSegments(progress.Stops())
	s.routePolyline = ""
	s.lastFix = nil
	s.status = model.StatusActive
	s.lastRecomputeAt = time.Time{}

	log.Printf("🔄 ツアーセッション再開: %s (ルート: %s, 訪問済み: %d/%d)",
		session.SessionID, route.Name, progress.VisitedCount(), len(stops))

	s.emitLocked(model.SessionEvent{Type: model.EventSessionRestored})
	return session, nil
}

// OnLocationUpdate 測位結果を取り込む（Active中のみ処理する）
// 精度の悪い測位は誤到着を避けるためエラーにせず無視する
func (s *TourSession) OnLocationUpdate(ctx context.Context, fix model.LocationFix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.StatusActive {
		return nil
	}
	if fix.HorizontalAccuracyMeters > s.deps.MaxAccuracyMeters {
		log.Printf("⚠️ 精度不足の測位を無視: %.0fm > %.0fm", fix.HorizontalAccuracyMeters, s.deps.MaxAccuracyMeters)
		return nil
	}

	s.lastFix = &fix

	target := s.progress.NextUnvisited()
	if target == nil {
		return nil
	}

	signal := s.proximity.Evaluate(fix.Coordinate, target)
	if signal.Kind == SignalArrived {
		s.handleArrivalLocked(ctx, target, signal)
	} else {
		s.emitLocked(model.SessionEvent{
			Type:                 model.EventDistanceUpdated,
			StopID:               target.ID,
			StopName:             target.Name,
			DistanceToStopMeters: signal.DistanceMeters,
		})
	}

	s.maybeRecomputeLocked(fix.Coordinate)
	return nil
}

// handleArrivalLocked 到着確定時の一連の処理
// 音声再生 → 訪問済み化 → 前進 → スナップショット保存の順で行い、
// クラッシュしても「最後のスポットをもう一度再生する」以上の巻き戻りが起きないようにする
func (s *TourSession) handleArrivalLocked(ctx context.Context, stop *model.Stop, signal Signal) {
	log.Printf("📍 スポット到着: %s (距離: %.1fm, 半径: %.0fm)", stop.Name, signal.DistanceMeters, stop.EffectiveTriggerRadius())

	if s.deps.Audio != nil {
		if err := s.deps.Audio.Play(stop.ID, stop.NarrationRef); err != nil {
			// 再生失敗で進捗を失わない
			log.Printf("⚠️ ナレーション再生に失敗: %v", err)
		} else {
			s.audioPlaying = true
			s.audioPaused = false
		}
	}

	s.progress.MarkVisited(stop.ID)

	s.emitLocked(model.SessionEvent{
		Type:                 model.EventStopArrived,
		StopID:               stop.ID,
		StopName:             stop.Name,
		DistanceToStopMeters: signal.DistanceMeters,
	})

	if s.progress.NextUnvisited() == nil {
		s.completeLocked(ctx)
		return
	}

	if err := s.deps.Snapshots.Save(ctx, s.deviceID, model.NewActiveRouteSnapshot(s.session)); err != nil {
		// 保存失敗は次の状態遷移時に再保存される
		log.Printf("❌ スナップショット保存に失敗: %v", err)
	}
}

// completeLocked 全スポット訪問によりセッションを完走状態にする
func (s *TourSession) completeLocked(ctx context.Context) {
	s.status = model.StatusCompleted
	s.session.Status = model.StatusCompleted
	s.cancelRecomputeLocked()

	if err := s.deps.Snapshots.Clear(ctx, s.deviceID); err != nil {
		log.Printf("⚠️ スナップショット削除に失敗: %v", err)
	}

	log.Printf("🏆 ツアー完走: %s (%d/%dスポット)", s.session.RouteName, s.progress.VisitedCount(), len(s.session.OrderedStops))
	s.emitLocked(model.SessionEvent{Type: model.EventSessionCompleted})
}

// EndRoute ユーザー操作でセッションを終了する (Active → Ended)
// 進行中の経路再計算をキャンセルし、音声を停止し、スナップショットを破棄する
func (s *TourSession) EndRoute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.StatusActive {
		return model.ErrNoActiveSession
	}

	s.cancelRecomputeLocked()
	if s.deps.Audio != nil {
		s.deps.Audio.Stop()
	}
	s.audioPlaying = false
	s.audioPaused = false

	if err := s.deps.Snapshots.Clear(ctx, s.deviceID); err != nil {
		log.Printf("⚠️ スナップショット削除に失敗: %v", err)
	}

	s.status = model.StatusEnded
	s.session.Status = model.StatusEnded

	log.Printf("🛑 ツアーセッション終了: %s (訪問済み: %d/%d)", s.session.SessionID, s.progress.VisitedCount(), len(s.session.OrderedStops))
	s.emitLocked(model.SessionEvent{Type: model.EventSessionEnded})
	return nil
}

// DiscardSnapshot 再開の提案をユーザーが辞退した際にスナップショットを破棄する
func (s *TourSession) DiscardSnapshot(ctx context.Context) error {
	return s.deps.Snapshots.Clear(ctx, s.deviceID)
}

// PauseAudio 再生を一時停止する（セッション状態は変化しない）
func (s *TourSession) PauseAudio() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deps.Audio != nil {
		s.deps.Audio.Pause()
	}
	if s.audioPlaying {
		s.audioPaused = true
	}
}

// ResumeAudio 一時停止中の再生を再開する（セッション状態は変化しない）
func (s *TourSession) ResumeAudio() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deps.Audio != nil {
		s.deps.Audio.Resume()
	}
	if s.audioPlaying {
		s.audioPaused = false
	}
}

// StopAudio 再生を停止する（セッション状態は変化しない）
func (s *TourSession) StopAudio() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deps.Audio != nil {
		s.deps.Audio.Stop()
	}
	s.audioPlaying = false
	s.audioPaused = false
}

// OnPlaybackStateChanged プレイヤーからの再生状態通知を取り込む
func (s *TourSession) OnPlaybackStateChanged(isPlaying, isPaused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioPlaying = isPlaying
	s.audioPaused = isPaused
}

// OnAuthorizationChanged 位置情報の許可状態変化を取り込む
// 拒否されてもセッションはActiveのまま保持し、測位が再開されるまで前進しないだけ
// ユーザーへの再許可の促しは上位レイヤーの責務
func (s *TourSession) OnAuthorizationChanged(status model.AuthorizationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorization = status
	if status == model.AuthorizationDenied || status == model.AuthorizationRestricted {
		log.Printf("⚠️ 位置情報の利用許可が失われました: %s (セッションは維持)", status)
	}
}

// maybeRecomputeLocked 経路検索サービスによる区間距離の再計算を要求する
// スロットル間隔内ならスキップし、進行中の古いリクエストはキャンセルして
// 常に最大1件のみ実行する。古い世代の結果は適用時に破棄される
func (s *TourSession) maybeRecomputeLocked(user model.Coordinate) {
	if s.deps.Directions == nil {
		return
	}
	if !s.lastRecomputeAt.IsZero() && time.Since(s.lastRecomputeAt) < s.deps.RecomputeInterval {
		return
	}

	remaining := s.remainingStopsLocked()
	if len(remaining) == 0 {
		return
	}

	s.lastRecomputeAt = time.Now()
	s.cancelRecomputeLocked()

	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	s.recomputeCancel = cancel
	s.recomputeGen++
	gen := s.recomputeGen
	visitedAtRequest := s.progress.VisitedCount()

	coordinates := make([]model.Coordinate, 0, len(remaining)+1)
	coordinates = append(coordinates, user)
	for _, stop := range remaining {
		coordinates = append(coordinates, stop.Coordinate)
	}

	go func() {
		defer cancel()
		path, err := s.deps.Directions.ComputeWalkingPath(ctx, coordinates)
		if err != nil {
			// 一時的な失敗は飲み込み、前回の距離を維持する（次の周期で再試行）
			log.Printf("⚠️ 経路再計算に失敗、前回値を維持: %v", err)
			return
		}
		s.applyRecomputedSegments(gen, visitedAtRequest, path)
	}()
}

// applyRecomputedSegments 再計算結果をセッションへ反映する
// 新しいリクエストに追い越された結果と、要求後に進捗が進んだ結果は破棄する
func (s *TourSession) applyRecomputedSegments(gen uint64, visitedAtRequest int, path *model.WalkingPath) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.StatusActive || gen != s.recomputeGen {
		return
	}
	if s.progress.VisitedCount() != visitedAtRequest {
		return
	}
	if len(path.SegmentDistancesMeters) != len(s.segmentDistances)-visitedAtRequest {
		log.Printf("⚠️ 区間数が一致しない再計算結果を破棄: %d件", len(path.SegmentDistancesMeters))
		return
	}

	copy(s.segmentDistances[visitedAtRequest:], path.SegmentDistancesMeters)
	s.routePolyline = path.Polyline

	s.emitLocked(model.SessionEvent{
		Type:         model.EventSegmentsRefreshed,
		VisitedCount: visitedAtRequest,
	})
}

func (s *TourSession) cancelRecomputeLocked() {
	if s.recomputeCancel != nil {
		s.recomputeCancel()
		s.recomputeCancel = nil
	}
	// キャンセル後に届く結果を世代番号で確実に締め出す
	s.recomputeGen++
}

func (s *TourSession) remainingStopsLocked() []*model.Stop {
	var remaining []*model.Stop
	for _, stop := range s.progress.Stops() {
		if !stop.Visited {
			remaining = append(remaining, stop)
		}
	}
	return remaining
}

// loadValidRoute ルートを読み込み、スポット列を検証する
// データ不備はstart/restoreに対して致命的であり、部分的なセッションは作らない
func (s *TourSession) loadValidRoute(ctx context.Context, routeID string) (*model.TourRoute, error) {
	route, err := s.deps.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(route.Stops) == 0 {
		return nil, fmt.Errorf("%w: ルート %s にスポットがありません", model.ErrInvalidRouteData, routeID)
	}
	for _, stop := range route.Stops {
		if !stop.Coordinate.IsValid() {
			return nil, fmt.Errorf("%w: スポット %s の座標が範囲外です", model.ErrInvalidRouteData, stop.ID)
		}
	}
	return route, nil
}

// emitLocked イベントを発行する
// 購読側が詰まっていても状態機械を止めない（状態はアクセサで常に取得可能）
// バッファ満杯時、高頻度の更新イベントは捨て、ライフサイクルイベントは
// 最も古いイベントを1件追い出して必ず積む
func (s *TourSession) emitLocked(event model.SessionEvent) {
	if s.progress != nil {
		event.VisitedCount = s.progress.VisitedCount()
	}
	event.Status = s.status

	select {
	case s.events <- event:
		return
	default:
	}

	switch event.Type {
	case model.EventDistanceUpdated, model.EventSegmentsRefreshed:
		return
	}

	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- event:
	default:
	}
}

// --- UI層が参照する派生値のアクセサ ---

// Status 現在のライフサイクル状態を返す
func (s *TourSession) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Session 現在のセッションを返す（存在しない場合はnil）
func (s *TourSession) Session() *model.RouteSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// CurrentTarget 次に向かうスポットの状態を和型で返す
func (s *TourSession) CurrentTarget() model.CurrentTarget {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.StatusActive {
		return model.CurrentTarget{Kind: model.TargetNone}
	}
	next := s.progress.NextUnvisited()
	if next == nil {
		return model.CurrentTarget{Kind: model.TargetAllVisited}
	}
	return model.CurrentTarget{Kind: model.TargetStop, Stop: next}
}

// VisitedCount 訪問済みスポット数を返す
func (s *TourSession) VisitedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return 0
	}
	return s.progress.VisitedCount()
}

// SegmentDistances 現在の区間距離列のコピーを返す
func (s *TourSession) SegmentDistances() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	distances := make([]float64, len(s.segmentDistances))
	copy(distances, s.segmentDistances)
	return distances
}

// DistanceWalkedMeters 訪問済み区間の合計歩行距離を返す
func (s *TourSession) DistanceWalkedMeters() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return 0
	}
	return DistanceWalked(s.segmentDistances, s.progress.VisitedCount())
}

// RoutePolyline 最新の徒歩経路ポリラインを返す（未計算なら空文字）
func (s *TourSession) RoutePolyline() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routePolyline
}

// PlaybackState 現在の再生状態を返す
func (s *TourSession) PlaybackState() (isPlaying, isPaused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioPlaying, s.audioPaused
}
