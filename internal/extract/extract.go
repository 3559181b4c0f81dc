// Package extract maps uploaded authoring-tool JSON into the register's
// document shape. Missing keys degrade to empty values; only malformed JSON
// syntax is an error.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soorozco/controldoc/internal/db/models"
	"gorm.io/datatypes"
)

// Result carries the extracted document plus the advisory scan output. The
// format codes are candidates for manual record registration; they never
// create records on their own.
type Result struct {
	Document    *models.Document
	Roles       []string
	FormatCodes []string
	Warnings    []string
}

// FromUpload parses one uploaded JSON object. Section tables that fail to
// normalize into their row shape degrade to empty with a warning instead of
// aborting the upload.
func FromUpload(raw []byte) (*Result, error) {
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid JSON upload: %w", err)
	}

	result := &Result{}

	responsibilities := objectAt(content, "Responsabilidades")
	risks := objectAt(content, "Gestión de Riesgos")

	doc := &models.Document{
		Code:             stringAt(content, "Código"),
		Name:             stringAt(content, "Nombre del Documento"),
		Version:          stringAt(content, "Versión vigente"),
		IssueDate:        stringAt(content, "Fecha de emisión"),
		ReviewDate:       stringAt(content, "Fecha de revisión"),
		Objective:        stringAt(content, "Objetivo"),
		Scope:            stringAt(content, "Alcance"),
		UpdateOwner:      stringAt(responsibilities, "Actualización"),
		SupervisionOwner: stringAt(responsibilities, "Supervisión"),
		Status:           models.StatusDraft,
	}

	var steps []models.ProcessStep
	doc.Steps = normalizeSection(result, "pasos", rowsAt(content, "Desarrollo del Proceso", "table"), &steps)

	var history []models.ChangeEntry
	doc.ChangeHistory = normalizeSection(result, "historial_cambios", rowsAt(content, "Control de Cambios", "table"), &history)

	var riskRows []models.RiskItem
	doc.Risks = normalizeSection(result, "riesgos", listAt(risks, "Ponderación de riesgos"), &riskRows)

	var barriers []models.SafetyBarrier
	doc.SafetyBarriers = normalizeSection(result, "barreras_seguridad", listAt(risks, "Barreras de seguridad"), &barriers)

	var references []models.ReferenceDocument
	doc.ReferenceDocs = normalizeSection(result, "documentos_referencia", rowsAt(content, "Documentos de Referencia", "table"), &references)

	var authorizations []models.AuthorizationRow
	doc.Authorizations = normalizeSection(result, "autorizaciones", rowsAt(content, "Autorizaciones", "table"), &authorizations)

	result.Roles = Roles(steps)
	result.FormatCodes = FormatCodes(steps)
	doc.ExecutionOwner = strings.Join(result.Roles, ", ")

	result.Document = doc
	return result, nil
}

// normalizeSection round-trips raw table rows through the typed row shape so
// stored sections are valid at write time. dst must be a pointer to a slice
// of the section's row type.
func normalizeSection(result *Result, section string, rows []any, dst any) datatypes.JSON {
	if len(rows) == 0 {
		return datatypes.JSON("[]")
	}

	raw, err := json.Marshal(rows)
	if err == nil {
		err = json.Unmarshal(raw, dst)
	}
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sección %s con formato inválido, se omite", section))
		return datatypes.JSON("[]")
	}

	normalized, err := json.Marshal(dst)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sección %s con formato inválido, se omite", section))
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(normalized)
}

func stringAt(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	value, _ := content[key].(string)
	return value
}

func objectAt(content map[string]any, key string) map[string]any {
	if content == nil {
		return nil
	}
	value, _ := content[key].(map[string]any)
	return value
}

func listAt(content map[string]any, key string) []any {
	if content == nil {
		return nil
	}
	value, _ := content[key].([]any)
	return value
}

func rowsAt(content map[string]any, section, key string) []any {
	return listAt(objectAt(content, section), key)
}
