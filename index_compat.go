package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Inline KEY/INDEX entries of a table body. The normalizer only relocates the
// "INDEX name ON table(cols)" form; these are reported for manual handling.
var inlineKeyRe = regexp.MustCompile(`(?i)(?:[(,])\s*((?:UNIQUE|FULLTEXT|SPATIAL)\s+)?(KEY|INDEX)\b\s*(` + identPattern + `)?\s*\(`)

func indexUnsupportedReason(kind string) string {
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "FULLTEXT":
		return "FULLTEXT indexes have no PostgreSQL equivalent; consider a GIN index over to_tsvector()"
	case "SPATIAL":
		return "SPATIAL indexes require PostGIS and a GiST index"
	case "UNIQUE":
		return "inline UNIQUE KEY is not accepted; use a UNIQUE (...) constraint"
	default:
		return "inline KEY/INDEX declarations are not accepted inside CREATE TABLE; create the index separately"
	}
}

// collectIndexCompatibilityWarnings reports in-body index declarations that
// PostgreSQL rejects and that the normalizer does not repair.
func collectIndexCompatibilityWarnings(dump string) []string {
	var warnings []string
	for _, def := range tableDefinitions(dump) {
		masked := maskSQL(def.Text, literalKinds...)
		for _, m := range inlineKeyRe.FindAllStringSubmatchIndex(masked, -1) {
			var kind, name string
			if m[2] >= 0 {
				kind = def.Text[m[2]:m[3]]
			}
			if m[6] >= 0 {
				name = unquoteIdent(def.Text[m[6]:m[7]])
			}
			if name == "" {
				name = "(unnamed)"
			}
			warnings = append(warnings,
				fmt.Sprintf("%s.%s: %s", def.Table, name, indexUnsupportedReason(kind)),
			)
		}
	}
	return warnings
}
