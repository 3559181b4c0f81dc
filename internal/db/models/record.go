package models

import (
	"gorm.io/gorm"
)

type StorageMedium string

const (
	MediumPhysical StorageMedium = "Physical"
	MediumDigital  StorageMedium = "Digital"
	MediumHybrid   StorageMedium = "Hybrid"
)

type Disposition string

const (
	DispositionArchived  Disposition = "Archived"
	DispositionDestroyed Disposition = "Destroyed"
	DispositionPermanent Disposition = "PermanentlyKept"
)

// RecordStatusActive is the default lifecycle state of a retained record.
const RecordStatusActive = "Activo"

// Record is a retained-evidence entry (conventionally coded F-XXX), distinct
// from a controlled Document. The origin document is a soft reference by code.
type Record struct {
	gorm.Model
	Code             string        `json:"codigo" gorm:"column:codigo;uniqueIndex;not null"`
	Name             string        `json:"nombre" gorm:"column:nombre"`
	Version          string        `json:"version" gorm:"column:version"`
	OriginDocument   string        `json:"documento_origen" gorm:"column:documento_origen;index"`
	CollectionOwner  string        `json:"responsable_recoleccion" gorm:"column:responsable_recoleccion"`
	StorageMedium    StorageMedium `json:"medio_almacenamiento" gorm:"column:medio_almacenamiento"`
	RetentionPeriod  string        `json:"tiempo_retencion" gorm:"column:tiempo_retencion"`
	FinalDisposition Disposition   `json:"disposicion_final" gorm:"column:disposicion_final"`
	Status           string        `json:"estado" gorm:"column:estado;not null;default:'Activo'"`
}

func (Record) TableName() string {
	return "registros"
}
