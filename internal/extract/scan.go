package extract

import (
	"regexp"
	"sort"

	"github.com/soorozco/controldoc/internal/db/models"
)

// formatCodePattern matches record references by convention: "F-" followed by
// exactly three digits, case sensitive.
var formatCodePattern = regexp.MustCompile(`\bF-[0-9]{3}\b`)

// Roles collects the distinct responsible role of each step, preserving
// first-seen order.
func Roles(steps []models.ProcessStep) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, step := range steps {
		if step.Responsible == "" || seen[step.Responsible] {
			continue
		}
		seen[step.Responsible] = true
		roles = append(roles, step.Responsible)
	}
	return roles
}

// FormatCodes scans every step description for record format codes, returning
// the deduplicated matches in lexicographic order.
func FormatCodes(steps []models.ProcessStep) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, step := range steps {
		for _, code := range formatCodePattern.FindAllString(step.Description, -1) {
			if seen[code] {
				continue
			}
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
