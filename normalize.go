package main

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// INDEX <name> ON <table>(<columns>) written inside a CREATE TABLE body.
	// The column list may hold one level of parentheses for prefix lengths.
	inBodyIndexRe = regexp.MustCompile(`(?i)\b(UNIQUE\s+)?INDEX\s+(` + identPattern + `)\s+ON\s+((?:` + identPattern + `\s*\.\s*)?` + identPattern + `)\s*\(((?:[^()]|\([^()]*\))*)\)(\s*,)?`)

	// A MySQL index prefix length such as name(10).
	prefixLengthRe = regexp.MustCompile(`\s*\(\s*\d+\s*\)`)

	// A run of commas followed only by whitespace (or masked comments) and
	// the closing parenthesis.
	trailingCommaRe = regexp.MustCompile(`,[\s\x00,]*\)`)

	commitRe = regexp.MustCompile(`(?i)^COMMIT(?: WORK)?;?$`)
)

// Comments vanish for the trailing-comma pattern, literals and identifiers
// turn into an opaque byte so a comma before them is never taken as trailing.
var trailingCommaMask = map[segmentKind]byte{
	segLineComment:  0,
	segBlockComment: 0,
	segString:       1,
	segQuoted:       1,
	segIdent:        1,
}

// normalizeDump repairs structural defects in CREATE TABLE bodies: index
// declarations that PostgreSQL does not accept inside a table body are moved
// to standalone CREATE INDEX statements, then commas left dangling before a
// closing parenthesis are removed. A dump without defects is returned as is.
func normalizeDump(dump string) NormalizeResult {
	res := NormalizeResult{Text: dump}

	stmts := splitStatements(dump)
	changed := false
	lastCommit := -1
	for i, stmt := range stmts {
		code := statementCode(stmt)
		switch classifyStatement(code) {
		case stmtCreateTable:
			fixed, indexes := relocateIndexes(stmt)
			fixed, commas := removeTrailingCommas(fixed)
			if len(indexes) > 0 || commas > 0 {
				stmts[i] = fixed
				changed = true
			}
			res.Indexes = append(res.Indexes, indexes...)
			res.RelocatedIndexes += len(indexes)
			res.TrailingCommas += commas
		case stmtTransactionControl:
			if commitRe.MatchString(code) {
				lastCommit = i
			}
		}
	}
	if !changed {
		return res
	}

	if len(res.Indexes) > 0 {
		block := relocatedIndexBlock(res.Indexes)
		if lastCommit >= 0 {
			stmts[lastCommit] = block + stmts[lastCommit]
		} else {
			tail := len(stmts) - 1
			if tail >= 0 && !strings.HasSuffix(stmts[tail], "\n") {
				stmts[tail] += "\n"
			}
			stmts = append(stmts, block)
		}
	}
	res.Text = strings.Join(stmts, "")
	return res
}

// relocateIndexes replaces in-body INDEX ... ON declarations with an inert
// comment and returns the equivalent standalone statements.
func relocateIndexes(stmt string) (string, []string) {
	var indexes []string
	out, _ := replaceMasked(stmt, maskSQL(stmt, literalKinds...), inBodyIndexRe, func(g []string) string {
		name := strings.TrimSpace(g[2])
		table := strings.TrimSpace(g[3])
		cols := strings.TrimSpace(g[4])
		kind := "INDEX"
		if g[1] != "" {
			kind = "UNIQUE INDEX"
		}
		note := ""
		// PostgreSQL has no prefix indexes; the whole column is indexed.
		if stripped, n := replaceMasked(cols, maskSQL(cols, allNonCodeKinds...), prefixLengthRe, func([]string) string { return "" }); n > 0 {
			cols = stripped
			note = ", prefix lengths dropped"
		}
		indexes = append(indexes, fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s(%s);", kind, name, table, cols))
		return fmt.Sprintf("/* %s %s moved to CREATE %s%s */", kind, name, kind, note)
	})
	return out, indexes
}

// removeTrailingCommas drops commas that directly precede a closing
// parenthesis, keeping any whitespace and comments between them in place.
func removeTrailingCommas(stmt string) (string, int) {
	removed := 0
	out, _ := replaceMasked(stmt, maskWith(stmt, trailingCommaMask), trailingCommaRe, func(g []string) string {
		var b strings.Builder
		// Only commas in code are dropped; the match may also span
		// comments, which are copied through untouched.
		for _, seg := range lexSQL(g[0]) {
			part := g[0][seg.start:seg.end]
			if seg.kind != segCode {
				b.WriteString(part)
				continue
			}
			for i := 0; i < len(part); i++ {
				if part[i] == ',' {
					removed++
					continue
				}
				b.WriteByte(part[i])
			}
		}
		return b.String()
	})
	return out, removed
}

func relocatedIndexBlock(indexes []string) string {
	var b strings.Builder
	b.WriteString("\n-- Indexes relocated out of CREATE TABLE bodies\n")
	for _, idx := range indexes {
		b.WriteString(idx)
		b.WriteByte('\n')
	}
	return b.String()
}
