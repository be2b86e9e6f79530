package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
)

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("store: record not found")

// Store defines the persistence contract for the master node. All operations
// are atomic at single-record granularity; no multi-record transactions are
// required by callers.
type Store interface {
	GetMovement(ctx context.Context, id string) (*model.MovementRecord, error)
	SaveMovement(ctx context.Context, rec *model.MovementRecord) error
	RecentMovements(ctx context.Context, limit int) ([]model.MovementRecord, error)

	ReadLiveState(ctx context.Context) (*model.LiveState, error)
	WriteLiveState(ctx context.Context, state *model.LiveState) error

	AppendCashout(ctx context.Context, report *model.CashoutReport) error
	ListCashouts(ctx context.Context) ([]model.CashoutReport, error)

	InsertAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	RecentAlerts(ctx context.Context, limit int) ([]model.Alert, error)
	CountAlertsBetween(ctx context.Context, from, to time.Time) (int64, error)

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error

	// DB exposes the underlying handle for callers that compose their own
	// queries (tests, migrations).
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// GetMovement looks up one session by its terminal-generated id.
func (s *gormStore) GetMovement(ctx context.Context, id string) (*model.MovementRecord, error) {
	var rec model.MovementRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movement %s: %w", id, err)
	}
	return &rec, nil
}

// SaveMovement inserts the record or fully replaces the existing row with the
// same id.
func (s *gormStore) SaveMovement(ctx context.Context, rec *model.MovementRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("save movement %s: %w", rec.ID, err)
	}
	return nil
}

// RecentMovements returns up to limit sessions, newest entry first.
func (s *gormStore) RecentMovements(ctx context.Context, limit int) ([]model.MovementRecord, error) {
	records := make([]model.MovementRecord, 0, limit)
	err := s.db.WithContext(ctx).
		Order("entry_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return records, nil
}

// ReadLiveState returns the singleton snapshot. A missing row (possible only
// before the first migration) yields the zero-value snapshot, never an error.
func (s *gormStore) ReadLiveState(ctx context.Context) (*model.LiveState, error) {
	var state model.LiveState
	err := s.db.WithContext(ctx).First(&state, "id = ?", model.LiveStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.LiveState{ID: model.LiveStateID, Detail: model.OccupancyDetail{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read live state: %w", err)
	}
	if state.Detail == nil {
		state.Detail = model.OccupancyDetail{}
	}
	return &state, nil
}

// WriteLiveState replaces the singleton row wholesale.
func (s *gormStore) WriteLiveState(ctx context.Context, state *model.LiveState) error {
	state.ID = model.LiveStateID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(state).Error
	if err != nil {
		return fmt.Errorf("write live state: %w", err)
	}
	return nil
}

func (s *gormStore) AppendCashout(ctx context.Context, report *model.CashoutReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("append cashout: %w", err)
	}
	return nil
}

func (s *gormStore) ListCashouts(ctx context.Context) ([]model.CashoutReport, error) {
	reports := make([]model.CashoutReport, 0)
	err := s.db.WithContext(ctx).Order("closed_at DESC").Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("list cashouts: %w", err)
	}
	return reports, nil
}

// InsertAlert stores an alert; a redelivered alert id replaces the previous
// row so terminal retries stay safe.
func (s *gormStore) InsertAlert(ctx context.Context, alert *model.Alert) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(alert).Error
	if err != nil {
		return fmt.Errorf("insert alert %s: %w", alert.ID, err)
	}
	return nil
}

func (s *gormStore) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	var alert model.Alert
	err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert %s: %w", id, err)
	}
	return &alert, nil
}

func (s *gormStore) RecentAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	alerts := make([]model.Alert, 0, limit)
	err := s.db.WithContext(ctx).Order("occurred_at DESC").Limit(limit).Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// CountAlertsBetween counts alerts in [from, to). The half-open range keeps
// the query portable across sqlite and postgres date handling.
func (s *gormStore) CountAlertsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return count, nil
}

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).
		Create(sub).Error
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	subs := make([]model.PushSubscription, 0)
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}
