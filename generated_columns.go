package main

import (
	"fmt"
	"regexp"
)

// A MySQL generated column: [GENERATED ALWAYS] AS (expr) [VIRTUAL|STORED].
// Only the storage keyword is matched; the expression may nest parentheses.
var generatedStorageRe = regexp.MustCompile(`(?i)\)\s*(VIRTUAL|STORED)\b`)

// collectGeneratedColumnWarnings reports generated columns. PostgreSQL before
// 18 only has STORED generated columns and always requires GENERATED ALWAYS.
func collectGeneratedColumnWarnings(dump string) []string {
	var warnings []string
	for _, def := range tableDefinitions(dump) {
		masked := maskSQL(def.Text, allNonCodeKinds...)
		virtual, stored := 0, 0
		for _, m := range generatedStorageRe.FindAllStringSubmatch(masked, -1) {
			if m[1][0] == 'V' || m[1][0] == 'v' {
				virtual++
			} else {
				stored++
			}
		}
		if virtual > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"%s: %d VIRTUAL generated column(s); PostgreSQL needs STORED (or a view) for these", def.Table, virtual))
		}
		if stored > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"%s: %d STORED generated column(s); check the expressions use PostgreSQL functions", def.Table, stored))
		}
	}
	return warnings
}
