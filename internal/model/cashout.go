package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashoutReport is the audit record a terminal sends when closing a shift.
// Reports are append-only and immutable once written; the master never
// recomputes or reconciles the reported totals.
type CashoutReport struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ShiftID              int64           `json:"porteria_turno_id"`
	EmployeeName         string          `gorm:"size:128" json:"usuario_nombre"`
	OpenedAt             time.Time       `json:"hora_apertura"`
	ClosedAt             time.Time       `gorm:"index" json:"hora_cierre"`
	OpeningFloat         decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_inicial"`
	SystemCashTotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_efectivo_sistema"`
	SystemDigitalTotal   decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_digital_sistema"`
	ReportedCashTotal    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_efectivo_reportado"`
	ReportedDigitalTotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_digital_reportado"`
	Remarks              string          `json:"observaciones"`
	CreatedAt            time.Time       `json:"-"`
}
