package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/service"
)

type stubRoutesRepo struct {
	route *model.TourRoute
}

func (s *stubRoutesRepo) GetRoute(ctx context.Context, routeID string) (*model.TourRoute, error) {
	if s.route == nil || s.route.ID != routeID {
		return nil, model.ErrRouteNotFound
	}
	return s.route, nil
}

type stubSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string]*model.ActiveRouteSnapshot
}

func newStubSnapshotRepo() *stubSnapshotRepo {
	return &stubSnapshotRepo{snapshots: make(map[string]*model.ActiveRouteSnapshot)}
}

func (s *stubSnapshotRepo) Save(ctx context.Context, deviceID string, snapshot *model.ActiveRouteSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[deviceID] = snapshot
	return nil
}

func (s *stubSnapshotRepo) Load(ctx context.Context, deviceID string) (*model.ActiveRouteSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[deviceID]
	if !ok {
		return nil, model.ErrNoSnapshot
	}
	return snapshot, nil
}

func (s *stubSnapshotRepo) Clear(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, deviceID)
	return nil
}

func newTestUseCase() TourSessionUseCase {
	return NewTourSessionUseCase(service.TourSessionDeps{
		Routes: &stubRoutesRepo{route: &model.TourRoute{
			ID:   "route-1",
			Name: "テストルート",
			Stops: []*model.Stop{
				{ID: "stop-1", Order: 1, Coordinate: model.Coordinate{Latitude: 35.000, Longitude: 135.76}},
				{ID: "stop-2", Order: 2, Coordinate: model.Coordinate{Latitude: 35.001, Longitude: 135.76}},
			},
		}},
		Snapshots:         newStubSnapshotRepo(),
		RecomputeInterval: time.Hour,
	})
}

func TestStartSessionValidatesLocation(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	t.Run("範囲外の座標は開始を拒否", func(t *testing.T) {
		_, err := uc.StartSession(ctx, "device-1", "route-1", &model.StartSessionRequest{
			UserLocation: &model.Coordinate{Latitude: 200, Longitude: 135.76},
		})
		assert.ErrorIs(t, err, model.ErrInvalidLocation)
	})

	t.Run("座標未指定も拒否", func(t *testing.T) {
		_, err := uc.StartSession(ctx, "device-1", "route-1", &model.StartSessionRequest{})
		assert.ErrorIs(t, err, model.ErrInvalidLocation)
	})

	t.Run("有効な座標では開始できる", func(t *testing.T) {
		state, err := uc.StartSession(ctx, "device-1", "route-1", &model.StartSessionRequest{
			UserLocation: &model.Coordinate{Latitude: 34.999, Longitude: 135.76},
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, state.Status)
	})
}

func TestIngestLocationValidatesCoordinate(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.StartSession(ctx, "device-1", "route-1", &model.StartSessionRequest{
		UserLocation: &model.Coordinate{Latitude: 34.999, Longitude: 135.76},
	})
	require.NoError(t, err)

	// 範囲外の測位は距離計算へ流さずに拒否する
	_, err = uc.IngestLocation(ctx, "device-1", &model.LocationUpdateRequest{
		Latitude:                 200,
		Longitude:                135.76,
		HorizontalAccuracyMeters: 5,
	})
	assert.ErrorIs(t, err, model.ErrInvalidLocation)

	state, err := uc.GetSessionState(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.VisitedCount)

	// 赤道上の0値は有効な座標として受け入れる
	_, err = uc.IngestLocation(ctx, "device-1", &model.LocationUpdateRequest{
		Latitude:                 0,
		Longitude:                0,
		HorizontalAccuracyMeters: 5,
	})
	assert.NoError(t, err)
}
