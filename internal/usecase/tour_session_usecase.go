package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/helper"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/service"
	"github.com/juanrafernandez/AudioCity-sub000/internal/infrastructure/audio"
	repoImpl "github.com/juanrafernandez/AudioCity-sub000/internal/repository"
)

// TourSessionUseCase ツアーセッションに関するアプリケーション操作
type TourSessionUseCase interface {
	// StartSession ルートセッションを開始する（デバイスにつき同時に1つのみ）
	StartSession(ctx context.Context, deviceID, routeID string, req *model.StartSessionRequest) (*model.SessionStateResponse, error)

	// RestoreSession 保存済みスナップショットからセッションを再開する
	RestoreSession(ctx context.Context, deviceID string) (*model.SessionStateResponse, error)

	// DiscardSnapshot 再開の提案をユーザーが辞退した際にスナップショットを破棄する
	DiscardSnapshot(ctx context.Context, deviceID string) error

	// IngestLocation 位置情報プロバイダからの測位結果を取り込む
	IngestLocation(ctx context.Context, deviceID string, req *model.LocationUpdateRequest) (*model.SessionStateResponse, error)

	// IngestAuthorizationChange 位置情報の許可状態変化を取り込む
	IngestAuthorizationChange(deviceID string, status model.AuthorizationStatus)

	// EndSession ユーザー操作でセッションを終了する
	EndSession(ctx context.Context, deviceID string) error

	// GetSessionState UI表示用の派生状態を取得する
	GetSessionState(ctx context.Context, deviceID string) (*model.SessionStateResponse, error)

	// PauseAudio / ResumeAudio / StopAudio プレイヤー操作の委譲（セッション状態は不変）
	PauseAudio(deviceID string)
	ResumeAudio(deviceID string)
	StopAudio(deviceID string)

	// CheckOptimizationOffer 「近いスポットから開始するか」の選択肢を提示すべきか判定する
	CheckOptimizationOffer(ctx context.Context, routeID string, userLocation model.Coordinate) (*model.OptimizationOfferResponse, error)
}

// tourSessionUseCaseImpl TourSessionUseCaseの実装
// デバイスごとにセッション所有者を1つ保持する
type tourSessionUseCaseImpl struct {
	mu       sync.Mutex
	sessions map[string]*service.TourSession
	deps     service.TourSessionDeps
}

// NewTourSessionUseCase 新しいTourSessionUseCaseインスタンスを作成する
func NewTourSessionUseCase(deps service.TourSessionDeps) TourSessionUseCase {
	return &tourSessionUseCaseImpl{
		sessions: make(map[string]*service.TourSession),
		deps:     deps,
	}
}

// owner デバイスのセッション所有者を取得する（なければ作成する）
func (u *tourSessionUseCaseImpl) owner(deviceID string) *service.TourSession {
	u.mu.Lock()
	defer u.mu.Unlock()

	if session, ok := u.sessions[deviceID]; ok {
		return session
	}

	// プレイヤーはデバイスごとに1つ（共有するとリスナーがデバイス間で上書きされる）
	deps := u.deps
	if deps.Audio == nil {
		deps.Audio = audio.NewNarrationPlayer()
	}

	session := service.NewTourSession(deviceID, deps)
	if notifier, ok := deps.Audio.(repository.PlaybackStateNotifier); ok {
		notifier.SetStateListener(session.OnPlaybackStateChanged)
	}

	// UI層の購読者が接続するまでのスタンドインとしてイベントをログに流す
	go u.drainEvents(deviceID, session.Events())
	u.sessions[deviceID] = session
	return session
}

func (u *tourSessionUseCaseImpl) drainEvents(deviceID string, events <-chan model.SessionEvent) {
	for event := range events {
		log.Printf("📣 セッションイベント [%s]: %s (訪問済み: %d, 状態: %s)",
			deviceID, event.Type, event.VisitedCount, event.Status)
	}
}

// StartSession ルートセッションを開始する
func (u *tourSessionUseCaseImpl) StartSession(ctx context.Context, deviceID, routeID string, req *model.StartSessionRequest) (*model.SessionStateResponse, error) {
	if req.UserLocation == nil || !req.UserLocation.IsValid() {
		return nil, fmt.Errorf("開始地点が不正です: %w", model.ErrInvalidLocation)
	}

	owner := u.owner(deviceID)
	if _, err := owner.Start(ctx, routeID, *req.UserLocation, req.Optimized); err != nil {
		return nil, err
	}
	return u.buildStateResponse(owner), nil
}

// RestoreSession スナップショットからセッションを再開する
func (u *tourSessionUseCaseImpl) RestoreSession(ctx context.Context, deviceID string) (*model.SessionStateResponse, error) {
	owner := u.owner(deviceID)
	if _, err := owner.Restore(ctx); err != nil {
		return nil, err
	}
	return u.buildStateResponse(owner), nil
}

// DiscardSnapshot スナップショットを破棄する
func (u *tourSessionUseCaseImpl) DiscardSnapshot(ctx context.Context, deviceID string) error {
	return u.owner(deviceID).DiscardSnapshot(ctx)
}

// IngestLocation 測位結果を取り込み、更新後の派生状態を返す
func (u *tourSessionUseCaseImpl) IngestLocation(ctx context.Context, deviceID string, req *model.LocationUpdateRequest) (*model.SessionStateResponse, error) {
	fix := req.ToLocationFix()
	if !fix.Coordinate.IsValid() {
		return nil, fmt.Errorf("測位座標が不正です: %w", model.ErrInvalidLocation)
	}

	owner := u.owner(deviceID)
	if err := owner.OnLocationUpdate(ctx, fix); err != nil {
		return nil, err
	}
	return u.buildStateResponse(owner), nil
}

// IngestAuthorizationChange 位置情報の許可状態変化を取り込む
func (u *tourSessionUseCaseImpl) IngestAuthorizationChange(deviceID string, status model.AuthorizationStatus) {
	u.owner(deviceID).OnAuthorizationChanged(status)
}

// EndSession セッションを終了する
func (u *tourSessionUseCaseImpl) EndSession(ctx context.Context, deviceID string) error {
	return u.owner(deviceID).EndRoute(ctx)
}

// GetSessionState UI表示用の派生状態を取得する
func (u *tourSessionUseCaseImpl) GetSessionState(ctx context.Context, deviceID string) (*model.SessionStateResponse, error) {
	owner := u.owner(deviceID)
	if owner.Session() == nil {
		return nil, model.ErrNoActiveSession
	}
	return u.buildStateResponse(owner), nil
}

// PauseAudio 再生を一時停止する
func (u *tourSessionUseCaseImpl) PauseAudio(deviceID string) {
	u.owner(deviceID).PauseAudio()
}

// ResumeAudio 再生を再開する
func (u *tourSessionUseCaseImpl) ResumeAudio(deviceID string) {
	u.owner(deviceID).ResumeAudio()
}

// StopAudio 再生を停止する
func (u *tourSessionUseCaseImpl) StopAudio(deviceID string) {
	u.owner(deviceID).StopAudio()
}

// CheckOptimizationOffer 最適化の選択肢を提示すべきか判定する
func (u *tourSessionUseCaseImpl) CheckOptimizationOffer(ctx context.Context, routeID string, userLocation model.Coordinate) (*model.OptimizationOfferResponse, error) {
	route, err := u.deps.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(route.Stops) == 0 {
		return nil, fmt.Errorf("%w: ルート %s にスポットがありません", model.ErrInvalidRouteData, routeID)
	}

	response := &model.OptimizationOfferResponse{
		RouteID:                   routeID,
		DistanceToFirstStopMeters: helper.DistanceMeters(userLocation, route.Stops[0].Coordinate),
	}

	nearest := helper.NearestStopIndex(userLocation, route.Stops)
	if nearest >= 0 {
		response.NearestStopID = route.Stops[nearest].ID
		response.DistanceToNearestStopMeters = helper.DistanceMeters(userLocation, route.Stops[nearest].Coordinate)
	}
	response.OfferOptimization = service.ShouldOfferOptimization(userLocation, route.Stops)

	return response, nil
}

// buildStateResponse セッション所有者の現在状態からUI表示用レスポンスを構築する
func (u *tourSessionUseCaseImpl) buildStateResponse(owner *service.TourSession) *model.SessionStateResponse {
	session := owner.Session()
	if session == nil {
		return &model.SessionStateResponse{
			Status:     model.StatusIdle,
			TargetKind: model.TargetNone,
		}
	}

	target := owner.CurrentTarget()
	response := &model.SessionStateResponse{
		SessionID:            session.SessionID,
		RouteID:              session.RouteID,
		RouteName:            session.RouteName,
		Status:               owner.Status(),
		StartedAt:            session.StartedAt,
		TargetKind:           target.Kind,
		CurrentStop:          model.NewStopView(target.Stop),
		VisitedCount:         owner.VisitedCount(),
		TotalStops:           len(session.OrderedStops),
		SegmentDistances:     owner.SegmentDistances(),
		DistanceWalkedMeters: owner.DistanceWalkedMeters(),
		RoutePolyline:        owner.RoutePolyline(),
		WakeRegion:           repoImpl.WakeRegionBound(session.OrderedStops),
	}
	return response
}
