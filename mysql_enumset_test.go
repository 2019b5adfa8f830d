package main

import (
	"reflect"
	"testing"
)

func TestParseMySQLEnumSetValues(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"simple", "enum('a','b')", []string{"a", "b"}, false},
		{"spaces", "set( 'x' , 'y' )", []string{"x", "y"}, false},
		{"doubled quote", "enum('it''s')", []string{"it's"}, false},
		{"backslash quote", `enum('it\'s')`, []string{"it's"}, false},
		{"comma and paren", "enum('a,b','(c)')", []string{"a,b", "(c)"}, false},
		{"empty value", "enum('')", []string{""}, false},
		{"no parens", "enum", nil, true},
		{"unquoted", "enum(a,b)", nil, true},
		{"unterminated", "enum('a)", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMySQLEnumSetValues(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMySQLEnumSetValues(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseMySQLEnumSetValues(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnumSetType(t *testing.T) {
	text := defaultTypeMappingConfig()
	check := defaultTypeMappingConfig()
	check.EnumMode = "check"

	tests := []struct {
		name      string
		col, kind string
		values    string
		tm        TypeMappingConfig
		want      string
	}{
		{"enum as text", "status", "ENUM", "'a','b'", text, "status TEXT"},
		{"enum with check", "status", "enum", "'a','b'", check, "status TEXT CHECK (status IN ('a', 'b'))"},
		{"set never checked", "tags", "SET", "'x','y'", check, "tags TEXT"},
		{"unparseable values", "s", "ENUM", "a,b", check, "s TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enumSetType(tt.col, tt.kind, tt.values, tt.tm); got != tt.want {
				t.Fatalf("enumSetType() = %q, want %q", got, tt.want)
			}
		})
	}
}
