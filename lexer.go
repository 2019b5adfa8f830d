package main

import (
	"regexp"
	"strings"
)

type segmentKind int

const (
	segCode segmentKind = iota
	segIdent              // `backtick identifier`
	segString             // 'single quoted', backslash escapes and '' doubling
	segQuoted             // "double quoted"
	segLineComment        // -- or # up to and including the newline
	segBlockComment       // /* ... */, including MySQL /*! ... */ conditionals
)

// segment is a half-open byte range [start, end) of the lexed text.
type segment struct {
	kind       segmentKind
	start, end int
}

// lexSQL splits MySQL dump text into contiguous segments. The segments cover
// the whole input; an unterminated literal or comment runs to the end.
func lexSQL(s string) []segment {
	var segs []segment
	emit := func(kind segmentKind, start, end int) {
		if end <= start {
			return
		}
		// Merge adjacent code runs so callers see one code segment between literals.
		if n := len(segs); n > 0 && kind == segCode && segs[n-1].kind == segCode && segs[n-1].end == start {
			segs[n-1].end = end
			return
		}
		segs = append(segs, segment{kind: kind, start: start, end: end})
	}

	codeStart := 0
	i := 0
	for i < len(s) {
		c := s[i]
		var kind segmentKind
		var end int
		switch {
		case c == '`':
			kind, end = segIdent, scanQuoted(s, i, '`', false)
		case c == '\'':
			kind, end = segString, scanQuoted(s, i, '\'', true)
		case c == '"':
			kind, end = segQuoted, scanQuoted(s, i, '"', true)
		case c == '#', c == '-' && isDashComment(s, i):
			kind, end = segLineComment, scanLineComment(s, i)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			kind, end = segBlockComment, scanBlockComment(s, i)
		default:
			i++
			continue
		}
		emit(segCode, codeStart, i)
		emit(kind, i, end)
		i = end
		codeStart = end
	}
	emit(segCode, codeStart, len(s))
	return segs
}

// isDashComment reports whether s[i:] starts a "--" comment. MySQL requires
// whitespace (or end of input) after the second dash.
func isDashComment(s string, i int) bool {
	if i+1 >= len(s) || s[i+1] != '-' {
		return false
	}
	if i+2 == len(s) {
		return true
	}
	switch s[i+2] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// scanQuoted returns the index just past the literal opened at s[i].
// A doubled delimiter is an escaped delimiter.
func scanQuoted(s string, i int, delim byte, backslash bool) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if backslash {
				j++
			}
		case delim:
			if j+1 < len(s) && s[j+1] == delim {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(s)
}

func scanLineComment(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

func scanBlockComment(s string, i int) int {
	if j := strings.Index(s[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(s)
}

// maskSQL returns a copy of s of identical length in which every byte of a
// segment whose kind is listed is replaced by NUL. Patterns run against the
// masked copy and edits are applied to s at the same offsets.
func maskSQL(s string, kinds ...segmentKind) string {
	fills := make(map[segmentKind]byte, len(kinds))
	for _, k := range kinds {
		fills[k] = 0
	}
	return maskWith(s, fills)
}

// maskWith is maskSQL with a fill byte chosen per segment kind. Kinds absent
// from fills are left as is.
func maskWith(s string, fills map[segmentKind]byte) string {
	masked := []byte(s)
	for _, seg := range lexSQL(s) {
		fill, ok := fills[seg.kind]
		if !ok {
			continue
		}
		for j := seg.start; j < seg.end; j++ {
			// Keep newlines so line-anchored patterns still line up.
			if masked[j] != '\n' {
				masked[j] = fill
			}
		}
	}
	return string(masked)
}

var literalKinds = []segmentKind{segString, segQuoted, segLineComment, segBlockComment}

var allNonCodeKinds = []segmentKind{segIdent, segString, segQuoted, segLineComment, segBlockComment}

// splitStatements cuts SQL text into chunks that each end just after a ';'
// found in code. Leading whitespace and comments belong to the chunk that
// follows them, and concatenating the chunks yields the input unchanged.
func splitStatements(sql string) []string {
	var stmts []string
	start := 0
	for _, seg := range lexSQL(sql) {
		if seg.kind != segCode {
			continue
		}
		for i := seg.start; i < seg.end; i++ {
			if sql[i] == ';' {
				stmts = append(stmts, sql[start:i+1])
				start = i + 1
			}
		}
	}
	if start < len(sql) {
		stmts = append(stmts, sql[start:])
	}
	return stmts
}

// statementCode returns the statement with comments and single-quoted
// literals blanked and whitespace in code collapsed to single spaces.
// Identifiers, including double-quoted ANSI names, are copied byte for byte.
// It is only used to classify a statement and pick out the table it names.
func statementCode(stmt string) string {
	var b strings.Builder
	space := false
	flush := func() {
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
	}
	for _, seg := range lexSQL(stmt) {
		part := stmt[seg.start:seg.end]
		switch seg.kind {
		case segString, segLineComment, segBlockComment:
			space = true
		case segIdent, segQuoted:
			flush()
			b.WriteString(part)
		default:
			for i := 0; i < len(part); i++ {
				switch c := part[i]; c {
				case ' ', '\t', '\n', '\r', '\f', '\v':
					space = true
				default:
					flush()
					b.WriteByte(c)
				}
			}
		}
	}
	return b.String()
}

// replaceMasked runs re over masked, a same-length masked copy of src, and
// replaces each match in src with repl's result. repl receives the submatches
// taken from src (empty for groups that did not participate). It returns the
// rewritten text and the number of replacements.
func replaceMasked(src, masked string, re *regexp.Regexp, repl func(groups []string) string) (string, int) {
	matches := re.FindAllStringSubmatchIndex(masked, -1)
	if len(matches) == 0 {
		return src, 0
	}
	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = src[m[2*g]:m[2*g+1]]
			}
		}
		b.WriteString(src[last:m[0]])
		b.WriteString(repl(groups))
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String(), len(matches)
}
