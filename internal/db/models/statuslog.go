package models

import (
	"time"

	"gorm.io/gorm"
)

// StatusLogEntry is one append-only audit row per lifecycle transition. It is
// independent of the per-document change-history section and never mutated.
type StatusLogEntry struct {
	gorm.Model
	DocumentCode   string         `json:"codigo" gorm:"column:codigo;index;not null"`
	PreviousStatus DocumentStatus `json:"estado_anterior" gorm:"column:estado_anterior;not null"`
	NewStatus      DocumentStatus `json:"nuevo_estado" gorm:"column:nuevo_estado;not null"`
	Comments       string         `json:"comentarios" gorm:"column:comentarios;type:text"`
	Timestamp      time.Time      `json:"fecha" gorm:"column:fecha;autoCreateTime"`
}

func (StatusLogEntry) TableName() string {
	return "log_estados"
}
