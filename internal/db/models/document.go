package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "Draft"
	StatusInReview DocumentStatus = "InReview"
	StatusApproved DocumentStatus = "Approved"
	StatusObsolete DocumentStatus = "Obsolete"
)

// Document is one controlled procedure. Column names follow the register's
// established Spanish schema; codigo is the stable business key.
type Document struct {
	gorm.Model
	Code             string         `json:"codigo" gorm:"column:codigo;uniqueIndex;not null"`
	Name             string         `json:"nombre_documento" gorm:"column:nombre_documento"`
	Version          string         `json:"version" gorm:"column:version"`
	IssueDate        string         `json:"fecha_emision" gorm:"column:fecha_emision"`
	ReviewDate       string         `json:"fecha_revision" gorm:"column:fecha_revision"`
	Objective        string         `json:"objetivo" gorm:"column:objetivo;type:text"`
	Scope            string         `json:"alcance" gorm:"column:alcance;type:text"`
	UpdateOwner      string         `json:"responsable_actualizacion" gorm:"column:responsable_actualizacion"`
	ExecutionOwner   string         `json:"responsable_ejecucion" gorm:"column:responsable_ejecucion"`
	SupervisionOwner string         `json:"responsable_supervision" gorm:"column:responsable_supervision"`
	Steps            datatypes.JSON `json:"pasos" gorm:"column:pasos"`
	ChangeHistory    datatypes.JSON `json:"historial_cambios" gorm:"column:historial_cambios"`
	Risks            datatypes.JSON `json:"riesgos" gorm:"column:riesgos"`
	SafetyBarriers   datatypes.JSON `json:"barreras_seguridad" gorm:"column:barreras_seguridad"`
	ReferenceDocs    datatypes.JSON `json:"documentos_referencia" gorm:"column:documentos_referencia"`
	Authorizations   datatypes.JSON `json:"autorizaciones" gorm:"column:autorizaciones"`
	Status           DocumentStatus `json:"estado" gorm:"column:estado;not null;default:'Draft'"`
	ReviewComments   string         `json:"comentarios_revision" gorm:"column:comentarios_revision;type:text"`
}

func (Document) TableName() string {
	return "documentos"
}
