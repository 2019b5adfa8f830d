package main

import (
	"fmt"
	"regexp"
	"strings"
)

// MySQL column types the rewrite rules leave untouched because PostgreSQL has
// no built-in equivalent. The column name (masked or bare) must precede the
// type so keywords elsewhere in the statement are not reported.
var unsupportedTypeRe = regexp.MustCompile(`(?i)(\x00+|[A-Za-z0-9_$]+)\s+(GEOMETRY|GEOMETRYCOLLECTION|POINT|MULTIPOINT|LINESTRING|MULTILINESTRING|POLYGON|MULTIPOLYGON|YEAR)\b`)

// collectUnsupportedTypeWarnings reports columns whose types the rewrite
// rules leave for manual attention.
func collectUnsupportedTypeWarnings(dump string) []string {
	var warnings []string
	for _, def := range tableDefinitions(dump) {
		masked := maskSQL(def.Text, allNonCodeKinds...)
		for _, m := range unsupportedTypeRe.FindAllStringSubmatchIndex(masked, -1) {
			col := unquoteIdent(def.Text[m[2]:m[3]])
			typ := strings.ToUpper(def.Text[m[4]:m[5]])
			warnings = append(warnings, fmt.Sprintf("%s.%s (%s): %s", def.Table, col, typ, unsupportedTypeHint(typ)))
		}
	}
	return warnings
}

func unsupportedTypeHint(typ string) string {
	switch typ {
	case "YEAR":
		return "no YEAR type in PostgreSQL; use SMALLINT"
	default:
		return "spatial types require PostGIS"
	}
}
