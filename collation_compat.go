package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	collationRe = regexp.MustCompile(`(?i)\bCOLLATE\s*=?\s*(\w+)`)
	charsetRe   = regexp.MustCompile(`(?i)\b(?:CHARSET|CHARACTER\s+SET)\s*=?\s*(\w+)`)
)

// collectCollationWarnings reports the charsets and collations declared in
// the dump's table definitions. The rewrite pass drops these clauses, so
// case-insensitive (_ci) collations silently become case-sensitive
// comparisons in PostgreSQL.
func collectCollationWarnings(dump string) []string {
	charsets := make(map[string]bool)
	collations := make(map[string]bool)
	// _ci collation → tables using it
	ciTables := make(map[string]map[string]bool)

	for _, def := range tableDefinitions(dump) {
		masked := maskSQL(def.Text, allNonCodeKinds...)
		for _, m := range charsetRe.FindAllStringSubmatch(masked, -1) {
			charsets[strings.ToLower(m[1])] = true
		}
		for _, m := range collationRe.FindAllStringSubmatch(masked, -1) {
			coll := strings.ToLower(m[1])
			collations[coll] = true
			if strings.HasSuffix(coll, "_ci") {
				if ciTables[coll] == nil {
					ciTables[coll] = make(map[string]bool)
				}
				ciTables[coll][def.Table] = true
			}
		}
	}

	var warnings []string
	if len(charsets) > 0 {
		warnings = append(warnings, fmt.Sprintf("source charsets dropped: %s", strings.Join(sortedKeys(charsets), ", ")))
	}
	if len(collations) > 0 {
		warnings = append(warnings, fmt.Sprintf("source collations dropped: %s", strings.Join(sortedKeys(collations), ", ")))
	}
	for _, coll := range sortedKeys(ciTables) {
		warnings = append(warnings, fmt.Sprintf(
			"%s is case-insensitive; PostgreSQL text comparisons and unique indexes are case-sensitive by default (tables: %s)",
			coll, strings.Join(sortedKeys(ciTables[coll]), ", ")))
	}
	return warnings
}

// sortedKeys returns the keys of a map in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
