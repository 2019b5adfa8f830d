package main

import (
	"regexp"
	"strings"
)

// identPattern matches one possibly quoted identifier, optionally qualified.
const identPattern = "(?:`(?:[^`]|``)+`|\"(?:[^\"]|\"\")+\"|[A-Za-z0-9_$]+)"

var (
	createTableRe = regexp.MustCompile(`(?i)^CREATE (?:TEMPORARY )?TABLE (?:IF NOT EXISTS )?((?:` + identPattern + ` ?\. ?)?` + identPattern + `)`)
	insertRe      = regexp.MustCompile(`(?i)^INSERT (?:(?:LOW_PRIORITY|DELAYED|HIGH_PRIORITY|IGNORE) )*(?:INTO )?((?:` + identPattern + ` ?\. ?)?` + identPattern + `)`)
	autoIncColRe  = regexp.MustCompile(`(?i)(` + identPattern + `) [A-Z]*INT(?:EGER)?(?: ?\( ?\d+ ?\))?(?: UNSIGNED| ZEROFILL| NOT NULL| NULL)* AUTO_INCREMENT\b`)
)

type statementKind int

const (
	stmtBlank statementKind = iota // whitespace or comments only
	stmtCreateTable
	stmtAlterTable
	stmtInsert
	stmtCreateIndex
	stmtDrop
	stmtSet
	stmtTransactionControl
	stmtLock
	stmtOther
)

var statementPrefixes = []struct {
	prefix string
	kind   statementKind
}{
	{"CREATE TABLE", stmtCreateTable},
	{"CREATE TEMPORARY TABLE", stmtCreateTable},
	{"ALTER TABLE", stmtAlterTable},
	{"INSERT", stmtInsert},
	{"CREATE INDEX", stmtCreateIndex},
	{"CREATE UNIQUE INDEX", stmtCreateIndex},
	{"DROP", stmtDrop},
	{"SET", stmtSet},
	{"BEGIN", stmtTransactionControl},
	{"START TRANSACTION", stmtTransactionControl},
	{"COMMIT", stmtTransactionControl},
	{"ROLLBACK", stmtTransactionControl},
	{"LOCK TABLES", stmtLock},
	{"UNLOCK TABLES", stmtLock},
}

// classifyStatement returns the statement kind by its leading keywords.
func classifyStatement(code string) statementKind {
	body := strings.TrimSpace(strings.TrimSuffix(code, ";"))
	if body == "" {
		return stmtBlank
	}
	upper := strings.ToUpper(body)
	for _, p := range statementPrefixes {
		if upper == p.prefix || strings.HasPrefix(upper, p.prefix+" ") {
			return p.kind
		}
	}
	return stmtOther
}

// unquoteIdent strips backtick or double-quote delimiters from a single
// identifier and collapses doubled delimiters.
func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		switch {
		case s[0] == '`' && s[len(s)-1] == '`':
			return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
		case s[0] == '"' && s[len(s)-1] == '"':
			return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
		}
	}
	return s
}

// tableNameOf returns the unqualified, unquoted table name of a possibly
// schema-qualified reference.
func tableNameOf(ref string) string {
	parts := splitQualified(ref)
	return unquoteIdent(parts[len(parts)-1])
}

// splitQualified splits "a.b" on dots that sit outside identifier quotes.
func splitQualified(ref string) []string {
	var parts []string
	start := 0
	var quote byte
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '`' || c == '"':
			quote = c
		case c == '.':
			parts = append(parts, ref[start:i])
			start = i + 1
		}
	}
	return append(parts, ref[start:])
}

// buildInventory scans a dump and counts INSERT statements per table. Tables
// defined but never inserted into appear with a zero count.
func buildInventory(dump string) Inventory {
	var inv Inventory
	for _, stmt := range splitStatements(dump) {
		code := statementCode(stmt)
		switch classifyStatement(code) {
		case stmtCreateTable:
			m := createTableRe.FindStringSubmatch(code)
			if m == nil {
				continue
			}
			e := inv.entry(tableNameOf(m[1]))
			e.Defined = true
			e.ref = pgRef(m[1])
			if e.LegacyKey == "" {
				if km := autoIncColRe.FindStringSubmatch(code); km != nil {
					e.LegacyKey = unquoteIdent(km[1])
					e.keyRef = pgRef(km[1])
				}
			}
		case stmtInsert:
			m := insertRe.FindStringSubmatch(code)
			if m == nil {
				continue
			}
			e := inv.entry(tableNameOf(m[1]))
			if e.ref == "" {
				e.ref = pgRef(m[1])
			}
			e.Records++
		}
	}
	return inv
}

// tableDefinition is one CREATE TABLE statement of a dump.
type tableDefinition struct {
	Table string // unquoted table name
	Text  string // statement as written
}

// tableDefinitions returns every CREATE TABLE statement in dump order.
func tableDefinitions(dump string) []tableDefinition {
	var defs []tableDefinition
	for _, stmt := range splitStatements(dump) {
		code := statementCode(stmt)
		if classifyStatement(code) != stmtCreateTable {
			continue
		}
		m := createTableRe.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		defs = append(defs, tableDefinition{Table: tableNameOf(m[1]), Text: stmt})
	}
	return defs
}
