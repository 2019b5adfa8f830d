package main

import (
	"regexp"
	"strings"
)

// RewriteRule maps a MySQL DDL token pattern to its PostgreSQL form. Rules
// with a Func compute the replacement from the submatches; the others use
// Replace verbatim. Rules with a When only run if it returns true.
type RewriteRule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
	Func    func(groups []string, tm TypeMappingConfig) string
	When    func(tm TypeMappingConfig) bool
}

// ddlRules run in this order on the code of CREATE TABLE and ALTER TABLE
// statements, with identifiers, literals and comments masked out. Identifier
// quoting and string escaping are rewritten afterwards by rewriteLexical, so
// these rules never see (or change) an identifier's text.
var ddlRules = []RewriteRule{
	// 1. table options without a PostgreSQL equivalent
	{Name: "engine", Pattern: regexp.MustCompile(`(?i)\s*\bENGINE\s*=\s*\w+`)},
	{Name: "charset", Pattern: regexp.MustCompile(`(?i)\s*\b(?:DEFAULT\s+)?(?:CHARSET|CHARACTER\s+SET)\s*=?\s*\w+`)},
	{Name: "collate", Pattern: regexp.MustCompile(`(?i)\s*\b(?:DEFAULT\s+)?COLLATE\s*=?\s*\w+`)},
	{Name: "auto_increment_seed", Pattern: regexp.MustCompile(`(?i)\s*\bAUTO_INCREMENT\s*=\s*\d+`)},
	{Name: "row_format", Pattern: regexp.MustCompile(`(?i)\s*\bROW_FORMAT\s*=\s*\w+`)},
	// column and table COMMENT '...'; mysqldump escapes newlines, so the
	// masked literal is one NUL run
	{Name: "comment", Pattern: regexp.MustCompile(`(?i)\s*\bCOMMENT\s*=?\s*\x00+`)},

	// 2. auto-increment columns
	{
		Name:    "auto_increment",
		Pattern: regexp.MustCompile(`(?i)\b(TINYINT|SMALLINT|MEDIUMINT|INTEGER|INT|BIGINT)\b(?:\s*\(\s*\d+\s*\))?(\s+UNSIGNED\b)?(?:\s+ZEROFILL\b)?(\s+NOT\s+NULL)?\s+AUTO_INCREMENT\b`),
		Func: func(g []string, tm TypeMappingConfig) string {
			return serialType(g[1], g[2] != "", tm) + g[3]
		},
	},
	{Name: "auto_increment_marker", Pattern: regexp.MustCompile(`(?i)\s+AUTO_INCREMENT\b`)},

	// 3. column types; width 1 is decided inside integerType so the general
	// width rule cannot claim a tinyint(1) first
	{
		Name:    "integer",
		Pattern: regexp.MustCompile(`(?i)\b(TINYINT|SMALLINT|MEDIUMINT|INTEGER|INT|BIGINT)\b(?:\s*\(\s*(\d+)\s*\))?(\s+UNSIGNED\b)?(?:\s+ZEROFILL\b)?`),
		Func: func(g []string, tm TypeMappingConfig) string {
			return integerType(g[1], g[2], g[3] != "", tm)
		},
	},
	{
		Name:    "datetime",
		Pattern: regexp.MustCompile(`(?i)\bDATETIME\b(\s*\(\s*\d+\s*\))?`),
		Func: func(g []string, tm TypeMappingConfig) string {
			precision := strings.Join(strings.Fields(g[1]), "")
			if tm.DatetimeAsTimestamptz {
				return "TIMESTAMPTZ" + precision
			}
			return "TIMESTAMP" + precision
		},
	},
	{
		Name:    "enum_set",
		Pattern: regexp.MustCompile(`(?i)(\x00+|[A-Za-z0-9_$]+)\s+(ENUM|SET)\s*\(([^()]*)\)`),
		Func: func(g []string, tm TypeMappingConfig) string {
			return enumSetType(g[1], g[2], g[3], tm)
		},
	},
	{Name: "double", Pattern: regexp.MustCompile(`(?i)\bDOUBLE\b(?:\s+PRECISION\b)?(?:\s*\(\s*\d+\s*,\s*\d+\s*\))?`), Replace: "DOUBLE PRECISION"},
	{Name: "text", Pattern: regexp.MustCompile(`(?i)\b(?:TINY|MEDIUM|LONG)TEXT\b`), Replace: "TEXT"},
	{Name: "blob", Pattern: regexp.MustCompile(`(?i)\b(?:TINY|MEDIUM|LONG)?BLOB\b`), Replace: "BYTEA"},
	{
		Name:    "json",
		Pattern: regexp.MustCompile(`(?i)\bJSON\b`),
		Replace: "JSONB",
		When:    func(tm TypeMappingConfig) bool { return tm.JSONAsJSONB },
	},
	{Name: "unsigned", Pattern: regexp.MustCompile(`(?i)\s+UNSIGNED\b`)},
}

func serialType(base string, unsigned bool, tm TypeMappingConfig) string {
	widen := unsigned && tm.WidenUnsignedIntegers
	switch strings.ToUpper(base) {
	case "TINYINT":
		return "SMALLSERIAL"
	case "SMALLINT":
		if widen {
			return "SERIAL"
		}
		return "SMALLSERIAL"
	case "MEDIUMINT":
		return "SERIAL"
	case "BIGINT":
		return "BIGSERIAL"
	default:
		if widen {
			return "BIGSERIAL"
		}
		return "SERIAL"
	}
}

// integerType maps a MySQL integer type and display width to PostgreSQL.
func integerType(base, width string, unsigned bool, tm TypeMappingConfig) string {
	widen := unsigned && tm.WidenUnsignedIntegers
	switch strings.ToUpper(base) {
	case "TINYINT":
		if width == "1" && tm.TinyInt1AsBoolean {
			return "BOOLEAN"
		}
		return "SMALLINT"
	case "SMALLINT":
		if widen {
			return "INTEGER"
		}
		return "SMALLINT"
	case "MEDIUMINT":
		return "INTEGER"
	case "BIGINT":
		if widen {
			return "NUMERIC(20)"
		}
		return "BIGINT"
	default:
		if widen {
			return "BIGINT"
		}
		return "INTEGER"
	}
}

type rewriteStats struct {
	Rewrites                  map[string]int
	Unrecognized              []string
	TransactionControlDropped int
	LockStatementsDropped     int
}

// rewriteDump converts a MySQL dump body to PostgreSQL statement by
// statement. Statements are never reordered; anything without a known shape
// passes through with only identifier quoting and string escaping converted.
func rewriteDump(dump string, tm TypeMappingConfig) (string, rewriteStats) {
	stats := rewriteStats{Rewrites: make(map[string]int)}
	stmts := splitStatements(dump)
	for i, stmt := range stmts {
		code := statementCode(stmt)
		switch classifyStatement(code) {
		case stmtCreateTable, stmtAlterTable:
			stmt = applyDDLRules(stmt, tm, stats.Rewrites)
		case stmtTransactionControl:
			stmts[i] = commentOut(stmt, "transaction control handled by the migration script")
			stats.TransactionControlDropped++
			continue
		case stmtLock:
			stmts[i] = commentOut(stmt, "table locks are not needed inside the migration transaction")
			stats.LockStatementsDropped++
			continue
		case stmtOther:
			stats.Unrecognized = append(stats.Unrecognized, code)
		}
		stmts[i] = rewriteLexical(stmt, stats.Rewrites)
	}
	return strings.Join(stmts, ""), stats
}

func applyDDLRules(stmt string, tm TypeMappingConfig, counts map[string]int) string {
	for _, rule := range ddlRules {
		if rule.When != nil && !rule.When(tm) {
			continue
		}
		var n int
		stmt, n = replaceMasked(stmt, maskSQL(stmt, allNonCodeKinds...), rule.Pattern, func(g []string) string {
			if rule.Func != nil {
				return rule.Func(g, tm)
			}
			return rule.Replace
		})
		counts[rule.Name] += n
	}
	return stmt
}

// rewriteLexical converts backtick identifiers to double quotes, backslash
// escaped quotes in strings to doubled quotes, and # comments to -- comments.
// Every other byte is copied unchanged.
func rewriteLexical(stmt string, counts map[string]int) string {
	var b strings.Builder
	b.Grow(len(stmt))
	for _, seg := range lexSQL(stmt) {
		part := stmt[seg.start:seg.end]
		switch seg.kind {
		case segIdent:
			if len(part) < 2 || part[len(part)-1] != '`' {
				b.WriteString(part)
				continue
			}
			inner := strings.ReplaceAll(part[1:len(part)-1], "``", "`")
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(inner, `"`, `""`))
			b.WriteByte('"')
			counts["identifier_quote"]++
		case segString:
			out, n := convertStringEscapes(part)
			b.WriteString(out)
			counts["string_escape"] += n
		case segLineComment:
			if part[0] == '#' {
				b.WriteString("--")
				b.WriteString(part[1:])
				counts["hash_comment"]++
				continue
			}
			b.WriteString(part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

// convertStringEscapes turns \' into '' inside one single-quoted literal.
// Other backslash sequences are kept byte for byte.
func convertStringEscapes(lit string) (string, int) {
	if !strings.Contains(lit, `\'`) {
		return lit, 0
	}
	var b strings.Builder
	b.Grow(len(lit) + 4)
	n := 0
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c == '\\' && i+1 < len(lit) {
			if lit[i+1] == '\'' {
				b.WriteString("''")
				n++
			} else {
				b.WriteByte(c)
				b.WriteByte(lit[i+1])
			}
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), n
}

// commentOut keeps the statement's leading whitespace and comments and turns
// its code into an inert block comment.
func commentOut(stmt, reason string) string {
	start := firstCodeByte(stmt)
	return stmt[:start] + "/* " + reason + ": " + statementCode(stmt[start:]) + " */"
}

// firstCodeByte returns the offset of the first non-space byte of code.
func firstCodeByte(stmt string) int {
	for _, seg := range lexSQL(stmt) {
		if seg.kind != segCode {
			// A literal before any code is itself the statement's start.
			if seg.kind != segLineComment && seg.kind != segBlockComment {
				return seg.start
			}
			continue
		}
		for i := seg.start; i < seg.end; i++ {
			switch stmt[i] {
			case ' ', '\t', '\n', '\r':
				continue
			}
			return i
		}
	}
	return len(stmt)
}
