package main

import (
	"fmt"
	"strings"
)

// enumSetType rewrites an ENUM(...) or SET(...) column type. Both become
// TEXT; with enum_mode=check an ENUM also gets a CHECK constraint over its
// values. col is the column reference as written in the dump.
func enumSetType(col, kind, valueList string, tm TypeMappingConfig) string {
	if !strings.EqualFold(kind, "ENUM") || tm.EnumMode != "check" {
		return col + " TEXT"
	}
	values, err := parseMySQLEnumSetValues("enum(" + valueList + ")")
	if err != nil || len(values) == 0 {
		return col + " TEXT"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pgLiteral(v)
	}
	return fmt.Sprintf("%s TEXT CHECK (%s IN (%s))", col, col, strings.Join(quoted, ", "))
}

// parseMySQLEnumSetValues returns the values of an enum('a','b') or
// set('a','b') column type, resolving backslash and doubled-quote escapes.
func parseMySQLEnumSetValues(columnType string) ([]string, error) {
	open := strings.IndexByte(columnType, '(')
	close := strings.LastIndexByte(columnType, ')')
	if open < 0 || close <= open {
		return nil, fmt.Errorf("invalid enum/set column type %q", columnType)
	}

	inside := columnType[open+1 : close]
	var values []string
	for i := 0; i < len(inside); {
		for i < len(inside) && strings.IndexByte(" \t\r\n,", inside[i]) >= 0 {
			i++
		}
		if i >= len(inside) {
			break
		}
		if inside[i] != '\'' {
			return nil, fmt.Errorf("invalid enum/set value list in %q", columnType)
		}
		v, next, err := readEnumValue(inside, i)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, columnType)
		}
		values = append(values, v)
		i = next
	}
	return values, nil
}

// readEnumValue decodes the quoted value starting at s[i] and returns it with
// the offset just past its closing quote.
func readEnumValue(s string, i int) (string, int, error) {
	var b strings.Builder
	for j := i + 1; j < len(s); j++ {
		switch c := s[j]; {
		case c == '\\':
			if j+1 >= len(s) {
				return "", 0, fmt.Errorf("invalid escape")
			}
			j++
			b.WriteByte(s[j])
		case c == '\'' && j+1 < len(s) && s[j+1] == '\'':
			b.WriteByte('\'')
			j++
		case c == '\'':
			return b.String(), j + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated value")
}
