package model

import "time"

// Alert is a security event reported by a gate camera. The photo itself
// travels out of band; only the reference URL is kept here.
type Alert struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	CameraID    string    `gorm:"size:64" json:"camara_id"`
	Kind        string    `gorm:"size:64" json:"tipo"`
	Description string    `json:"descripcion"`
	FileURL     string    `json:"archivo_url"`
	OccurredAt  time.Time `gorm:"index" json:"fecha"`
	SyncedAt    time.Time `gorm:"autoCreateTime" json:"sincronizado_el"`
}
