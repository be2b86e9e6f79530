package reconcile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

// Snapshot is the wholesale lot status a terminal pushes: today's revenue,
// total occupancy, and the per-category breakdown.
type Snapshot struct {
	TodayRevenue   decimal.Decimal
	TotalOccupancy int
	Detail         model.OccupancyDetail
}

// Summary is the combined read-model the dashboard consumes.
type Summary struct {
	TodayRevenue   decimal.Decimal       `json:"ingresosHoy"`
	TotalOccupancy int                   `json:"ocupacionTotal"`
	PendingAlerts  int64                 `json:"alertasPendientes"`
	Detail         model.OccupancyDetail `json:"detallesOcupacion"`
	UpdatedAt      time.Time             `json:"ultimaActualizacion"`
}

// Aggregator owns the live-state singleton. Every push replaces the whole
// row and the last writer wins; there is no merge across terminals. With a
// single active gate this converges on the authoritative picture, which is
// the deployment assumption.
type Aggregator struct {
	store store.Store
	now   func() time.Time
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s, now: time.Now}
}

// Push persists the snapshot verbatim, stamping the update time.
func (a *Aggregator) Push(ctx context.Context, snap Snapshot) error {
	detail := snap.Detail
	if detail == nil {
		detail = model.OccupancyDetail{}
	}
	state := &model.LiveState{
		ID:             model.LiveStateID,
		TodayRevenue:   snap.TodayRevenue,
		TotalOccupancy: snap.TotalOccupancy,
		Detail:         detail,
		UpdatedAt:      a.now().UTC(),
	}
	return a.store.WriteLiveState(ctx, state)
}

// Summary combines the live snapshot with the count of alerts received for
// the current day.
func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	state, err := a.store.ReadLiveState(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pending, err := a.store.CountAlertsBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &Summary{
		TodayRevenue:   state.TodayRevenue,
		TotalOccupancy: state.TotalOccupancy,
		PendingAlerts:  pending,
		Detail:         state.Detail,
		UpdatedAt:      state.UpdatedAt,
	}, nil
}
