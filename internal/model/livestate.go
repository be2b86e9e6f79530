package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LiveStateID is the fixed key of the singleton row.
const LiveStateID = 1

// CategoryOccupancy is the current/configured-maximum pair for one vehicle
// category.
type CategoryOccupancy struct {
	Current int `json:"actual"`
	Max     int `json:"max"`
}

// OccupancyDetail maps a vehicle category to its occupancy. It is persisted
// as a JSON column so the live state stays a single row.
type OccupancyDetail map[string]CategoryOccupancy

// Value implements driver.Valuer.
func (d OccupancyDetail) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *OccupancyDetail) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*d = OccupancyDetail{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("occupancy detail: unsupported column type %T", src)
	}
	if len(data) == 0 {
		*d = OccupancyDetail{}
		return nil
	}
	return json.Unmarshal(data, d)
}

// LiveState is the lot-wide snapshot pushed wholesale by the active terminal.
// Exactly one row exists, seeded with zero values at initialization; every
// push fully replaces it.
type LiveState struct {
	ID             int             `gorm:"primaryKey" json:"-"`
	TodayRevenue   decimal.Decimal `gorm:"type:decimal(12,2)" json:"ingresos_hoy"`
	TotalOccupancy int             `gorm:"not null" json:"ocupacion_total"`
	Detail         OccupancyDetail `gorm:"type:text" json:"detalle_ocupacion"`
	UpdatedAt      time.Time       `json:"ultima_actualizacion"`
}
