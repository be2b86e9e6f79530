package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/shopspring/decimal"

	"github.com/trabajostecnicos73/app-control-smartparking/config"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/notification"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/reconcile"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

func init() {
	// Dashboard clients read monetary fields as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	reconciler *reconcile.Reconciler
	aggregator *reconcile.Aggregator
	notifier   *notification.WorkerPool // nil when push is disabled
	webpush    *webpush.Options
	history    config.HistoryConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, r *reconcile.Reconciler, a *reconcile.Aggregator,
	notifier *notification.WorkerPool, webpushOptions *webpush.Options, history config.HistoryConfig) *Handler {
	return &Handler{
		store:      s,
		reconciler: r,
		aggregator: a,
		notifier:   notifier,
		webpush:    webpushOptions,
		history:    history,
	}
}
