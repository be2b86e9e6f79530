package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
)

func TestPushIsLastWriteWins(t *testing.T) {
	s := newTestStore(t, "aggregator_lww")
	a := NewAggregator(s)
	ctx := context.Background()

	require.NoError(t, a.Push(ctx, Snapshot{
		TodayRevenue:   decimal.NewFromInt(100),
		TotalOccupancy: 5,
		Detail:         model.OccupancyDetail{"moto": {Current: 2, Max: 10}},
	}))
	require.NoError(t, a.Push(ctx, Snapshot{
		TodayRevenue:   decimal.NewFromInt(150),
		TotalOccupancy: 4,
		Detail:         model.OccupancyDetail{"moto": {Current: 1, Max: 10}},
	}))

	state, err := s.ReadLiveState(ctx)
	require.NoError(t, err)
	assert.True(t, state.TodayRevenue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 4, state.TotalOccupancy)
	assert.Equal(t, model.CategoryOccupancy{Current: 1, Max: 10}, state.Detail["moto"])
}

func TestPushStampsUpdateTime(t *testing.T) {
	s := newTestStore(t, "aggregator_stamp")
	a := NewAggregator(s)
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	require.NoError(t, a.Push(context.Background(), Snapshot{TodayRevenue: decimal.NewFromInt(1)}))

	state, err := s.ReadLiveState(context.Background())
	require.NoError(t, err)
	assert.True(t, state.UpdatedAt.Equal(fixed))
}

func TestSummaryCombinesLiveStateAndTodaysAlerts(t *testing.T) {
	s := newTestStore(t, "aggregator_summary")
	a := NewAggregator(s)
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, a.Push(ctx, Snapshot{
		TodayRevenue:   decimal.NewFromInt(80000),
		TotalOccupancy: 12,
		Detail:         model.OccupancyDetail{"carro": {Current: 9, Max: 40}},
	}))
	require.NoError(t, s.InsertAlert(ctx, &model.Alert{ID: "al-1", OccurredAt: fixed.Add(-time.Hour)}))
	require.NoError(t, s.InsertAlert(ctx, &model.Alert{ID: "al-2", OccurredAt: fixed.Add(-30 * time.Hour)}))

	summary, err := a.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TodayRevenue.Equal(decimal.NewFromInt(80000)))
	assert.Equal(t, 12, summary.TotalOccupancy)
	assert.Equal(t, int64(1), summary.PendingAlerts, "only today's alerts count")
	assert.Equal(t, model.CategoryOccupancy{Current: 9, Max: 40}, summary.Detail["carro"])
}

func TestSummaryOnFreshDatabaseReturnsZeroes(t *testing.T) {
	s := newTestStore(t, "aggregator_fresh")
	a := NewAggregator(s)

	summary, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TodayRevenue.IsZero())
	assert.Equal(t, 0, summary.TotalOccupancy)
	assert.Equal(t, int64(0), summary.PendingAlerts)
	assert.NotNil(t, summary.Detail)
}
