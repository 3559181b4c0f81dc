package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Sub-collection row shapes. JSON keys match the tables produced by the
// authoring tool, so stored sections round-trip without renaming.

type ProcessStep struct {
	Number      int    `json:"Número,omitempty"`
	Description string `json:"Descripción"`
	Responsible string `json:"Responsable"`
}

type ChangeEntry struct {
	Number      int    `json:"Número"`
	Date        string `json:"Fecha"`
	Description string `json:"Descripción del Cambio"`
	Author      string `json:"Realizado por"`
	Approver    string `json:"Aprobado por"`
	Comments    string `json:"Comentarios,omitempty"`
}

type RiskItem struct {
	Risk   string `json:"Riesgo"`
	Weight string `json:"Ponderación"`
}

type SafetyBarrier struct {
	Barrier string `json:"Barrera"`
}

type ReferenceDocument struct {
	Code string `json:"Código"`
	Name string `json:"Nombre"`
}

// AuthorizationRow is one row of the fixed two-row authorization table:
// row 0 holds names, row 1 holds titles.
type AuthorizationRow struct {
	Elaborated string `json:"Elaboró"`
	Reviewed   string `json:"Revisó"`
	Authorized string `json:"Autorizó"`
}

func DecodeSteps(data datatypes.JSON) ([]ProcessStep, error) {
	var rows []ProcessStep
	return rows, decodeSection(data, &rows)
}

func DecodeHistory(data datatypes.JSON) ([]ChangeEntry, error) {
	var rows []ChangeEntry
	return rows, decodeSection(data, &rows)
}

func DecodeRisks(data datatypes.JSON) ([]RiskItem, error) {
	var rows []RiskItem
	return rows, decodeSection(data, &rows)
}

func DecodeBarriers(data datatypes.JSON) ([]SafetyBarrier, error) {
	var rows []SafetyBarrier
	return rows, decodeSection(data, &rows)
}

func DecodeReferences(data datatypes.JSON) ([]ReferenceDocument, error) {
	var rows []ReferenceDocument
	return rows, decodeSection(data, &rows)
}

func DecodeAuthorizations(data datatypes.JSON) ([]AuthorizationRow, error) {
	var rows []AuthorizationRow
	return rows, decodeSection(data, &rows)
}

func decodeSection(data datatypes.JSON, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
