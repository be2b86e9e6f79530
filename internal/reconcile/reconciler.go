package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

// MovementEvent is the inbound payload a gate terminal pushes for one half of
// a parking session. The terminal generates ID and retries delivery until it
// gets an acknowledgement, so applying the same event twice must land on the
// same stored state.
type MovementEvent struct {
	ID              string
	Plate           string
	VehicleCategory string
	EntryAt         time.Time
	ExitAt          *time.Time
	AmountPaid      decimal.NullDecimal
	PaymentMethod   *string
	EmployeeName    string
	DurationMinutes *int
	TerminalID      string
}

// Outcome reports which half of the session an event was applied as.
type Outcome string

const (
	OutcomeEntryRecorded Outcome = "entry-recorded"
	OutcomeExitRecorded  Outcome = "exit-recorded"
)

// Reconciler folds terminal movement events into the global ledger with
// upsert-by-id semantics: the first sighting of an id opens the session, an
// event carrying an exit timestamp closes it. The status transition is one
// way; a closed session never reopens.
type Reconciler struct {
	store store.Store
	locks *keyedMutex
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(s store.Store) *Reconciler {
	return &Reconciler{store: s, locks: newKeyedMutex()}
}

// Apply runs the read-modify-write for one event. Events for the same id are
// serialized so a resent entry racing a genuine exit cannot interleave into a
// half-written record; events for different ids proceed concurrently.
func (r *Reconciler) Apply(ctx context.Context, ev MovementEvent) (Outcome, error) {
	unlock := r.locks.Lock(ev.ID)
	defer unlock()

	existing, err := r.store.GetMovement(ctx, ev.ID)
	if errors.Is(err, store.ErrNotFound) {
		return r.recordEntry(ctx, ev)
	}
	if err != nil {
		return "", err
	}

	// A redelivered entry (no exit timestamp) is a no-op: the session is
	// already recorded, and if it has since closed it must not reopen.
	if ev.ExitAt == nil {
		return OutcomeEntryRecorded, nil
	}

	return r.recordExit(ctx, ev, existing)
}

func (r *Reconciler) recordEntry(ctx context.Context, ev MovementEvent) (Outcome, error) {
	rec := &model.MovementRecord{
		ID:              ev.ID,
		Plate:           ev.Plate,
		VehicleCategory: ev.VehicleCategory,
		EntryAt:         ev.EntryAt,
		ExitAt:          ev.ExitAt,
		AmountPaid:      ev.AmountPaid,
		PaymentMethod:   ev.PaymentMethod,
		AttendedBy:      ev.EmployeeName,
		DurationMinutes: ev.DurationMinutes,
		TerminalID:      ev.TerminalID,
		Status:          model.SessionOpen,
	}
	// An unknown id carrying an exit timestamp lands as an already-closed
	// session; there is no separate "exit with unknown entry" state.
	if ev.ExitAt != nil {
		rec.Status = model.SessionClosed
		invoicedBy := ev.EmployeeName
		rec.InvoicedBy = &invoicedBy
	}
	if err := r.store.SaveMovement(ctx, rec); err != nil {
		return "", err
	}
	return OutcomeEntryRecorded, nil
}

// recordExit overwrites the exit-side fields with the event's values, leaving
// the entry side untouched. The overwrite is unconditional: a resent exit
// re-applies the same values, which keeps redelivery safe without a payload
// comparison.
func (r *Reconciler) recordExit(ctx context.Context, ev MovementEvent, rec *model.MovementRecord) (Outcome, error) {
	rec.ExitAt = ev.ExitAt
	rec.AmountPaid = ev.AmountPaid
	rec.PaymentMethod = ev.PaymentMethod
	rec.DurationMinutes = ev.DurationMinutes
	invoicedBy := ev.EmployeeName
	rec.InvoicedBy = &invoicedBy
	rec.Status = model.SessionClosed
	if err := r.store.SaveMovement(ctx, rec); err != nil {
		return "", err
	}
	return OutcomeExitRecorded, nil
}
