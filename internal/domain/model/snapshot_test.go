package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveRouteSnapshot(t *testing.T) {
	startedAt := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	session := &RouteSession{
		SessionID: "session-1",
		RouteID:   "route-1",
		RouteName: "旧市街音声ツアー",
		OrderedStops: []*Stop{
			{ID: "stop-1", Order: 1, Visited: true},
			{ID: "stop-2", Order: 2, Visited: true},
			{ID: "stop-3", Order: 3},
		},
		StartedAt: startedAt,
		Status:    StatusActive,
	}

	t.Run("訪問済みIDを訪問順で抽出する", func(t *testing.T) {
		snapshot := NewActiveRouteSnapshot(session)
		assert.Equal(t, "route-1", snapshot.RouteID)
		assert.Equal(t, "旧市街音声ツアー", snapshot.RouteName)
		assert.Equal(t, []string{"stop-1", "stop-2"}, snapshot.VisitedStopIDs)
		assert.True(t, snapshot.StartedAt.Equal(startedAt))
	})

	t.Run("JSONラウンドトリップで進捗が失われない", func(t *testing.T) {
		snapshot := NewActiveRouteSnapshot(session)
		data, err := json.Marshal(snapshot)
		require.NoError(t, err)

		var decoded ActiveRouteSnapshot
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, snapshot.RouteID, decoded.RouteID)
		assert.Equal(t, snapshot.VisitedStopIDs, decoded.VisitedStopIDs)
		assert.True(t, decoded.StartedAt.Equal(snapshot.StartedAt))
	})

	t.Run("訪問ゼロのスナップショットは空のID列", func(t *testing.T) {
		fresh := &RouteSession{
			SessionID:    "session-2",
			RouteID:      "route-1",
			OrderedStops: []*Stop{{ID: "stop-1", Order: 1}},
			StartedAt:    startedAt,
		}
		snapshot := NewActiveRouteSnapshot(fresh)
		assert.Empty(t, snapshot.VisitedStopIDs)
	})
}
