package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus tags the lifecycle of a parking session. The transition is
// one-way: an open session closes on its exit half and never reopens.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// MovementRecord is one vehicle's full parking session in the global ledger.
// The ID is generated by the originating terminal and is the sole
// reconciliation key: the first sync for an ID records the entry half, a
// later sync with an exit timestamp records the exit half.
type MovementRecord struct {
	ID              string              `gorm:"primaryKey;size:64" json:"id"`
	Plate           string              `gorm:"size:16;index;not null" json:"placa"`
	VehicleCategory string              `gorm:"size:32" json:"tipo_vehiculo"`
	EntryAt         time.Time           `gorm:"index;not null" json:"entrada"`
	ExitAt          *time.Time          `json:"salida"`
	AmountPaid      decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"total_pagado"`
	PaymentMethod   *string             `gorm:"size:32" json:"metodo_pago"`
	AttendedBy      string              `gorm:"size:128" json:"usuario_nombre"`
	InvoicedBy      *string             `gorm:"size:128" json:"facturo"`
	DurationMinutes *int                `json:"duracion_minutos"`
	TerminalID      string              `gorm:"size:64;index" json:"porteria_id"`
	Status          SessionStatus       `gorm:"size:8;not null" json:"estado"`
	CreatedAt       time.Time           `json:"-"`
	UpdatedAt       time.Time           `json:"-"`
}

// IsOpen reports whether the session is still missing its exit half.
func (m *MovementRecord) IsOpen() bool {
	return m.Status != SessionClosed
}
