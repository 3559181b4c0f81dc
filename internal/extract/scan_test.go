package extract

import (
	"testing"

	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/stretchr/testify/assert"
)

func TestRoles_FirstSeenOrderDeduplicated(t *testing.T) {
	steps := []models.ProcessStep{
		{Responsible: "Quality"},
		{Responsible: "Quality"},
		{Responsible: "Ops"},
	}

	assert.Equal(t, []string{"Quality", "Ops"}, Roles(steps))
}

func TestRoles_SkipsEmpty(t *testing.T) {
	steps := []models.ProcessStep{
		{Responsible: ""},
		{Responsible: "Ops"},
		{Responsible: ""},
	}

	assert.Equal(t, []string{"Ops"}, Roles(steps))
}

func TestRoles_Empty(t *testing.T) {
	assert.Empty(t, Roles(nil))
}

func TestFormatCodes_PatternIsStrict(t *testing.T) {
	steps := []models.ProcessStep{
		{Description: "Registrar en F-001"},
		{Description: "Archivar f-002 con cuidado"}, // wrong case
		{Description: "Ver también F-001"},          // repeat
		{Description: "Usar F-12 si aplica"},        // wrong digit count
	}

	assert.Equal(t, []string{"F-001"}, FormatCodes(steps))
}

func TestFormatCodes_SortedLexicographically(t *testing.T) {
	steps := []models.ProcessStep{
		{Description: "Primero F-200, luego F-003"},
		{Description: "Y finalmente F-105"},
	}

	assert.Equal(t, []string{"F-003", "F-105", "F-200"}, FormatCodes(steps))
}

func TestFormatCodes_MultipleMatchesPerStep(t *testing.T) {
	steps := []models.ProcessStep{
		{Description: "F-001 F-002 F-003"},
	}

	assert.Equal(t, []string{"F-001", "F-002", "F-003"}, FormatCodes(steps))
}

func TestFormatCodes_NoMatches(t *testing.T) {
	steps := []models.ProcessStep{
		{Description: "sin referencias"},
	}

	assert.Empty(t, FormatCodes(steps))
}
