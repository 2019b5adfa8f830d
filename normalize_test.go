package main

import (
	"strings"
	"testing"
)

func TestNormalizeTrailingCommas(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		commas int
	}{
		{
			name:   "before closing paren",
			in:     "CREATE TABLE t (\n  a INT,\n  b INT,\n);\n",
			want:   "CREATE TABLE t (\n  a INT,\n  b INT\n);\n",
			commas: 1,
		},
		{
			name:   "line comment kept",
			in:     "CREATE TABLE t (\n  a INT, -- last column\n);",
			want:   "CREATE TABLE t (\n  a INT -- last column\n);",
			commas: 1,
		},
		{
			name:   "after type width",
			in:     "CREATE TABLE t (a INT(11),)",
			want:   "CREATE TABLE t (a INT(11))",
			commas: 1,
		},
		{
			name:   "comma in string literal untouched",
			in:     "CREATE TABLE t (a VARCHAR(5) DEFAULT ',)');",
			want:   "CREATE TABLE t (a VARCHAR(5) DEFAULT ',)');",
			commas: 0,
		},
		{
			name:   "insert statements untouched",
			in:     "INSERT INTO t VALUES (1,);",
			want:   "INSERT INTO t VALUES (1,);",
			commas: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := normalizeDump(tt.in)
			if res.Text != tt.want {
				t.Fatalf("normalizeDump(%q) = %q, want %q", tt.in, res.Text, tt.want)
			}
			if res.TrailingCommas != tt.commas {
				t.Fatalf("TrailingCommas = %d, want %d", res.TrailingCommas, tt.commas)
			}
		})
	}
}

func TestNormalizeRelocatesIndexBeforeCommit(t *testing.T) {
	in := "BEGIN;\nCREATE TABLE `w` (\n  id INT,\n  INDEX idx_id ON w(id)\n);\nCOMMIT;\n"
	res := normalizeDump(in)

	if res.RelocatedIndexes != 1 {
		t.Fatalf("RelocatedIndexes = %d, want 1", res.RelocatedIndexes)
	}
	if res.TrailingCommas != 1 {
		t.Fatalf("TrailingCommas = %d, want 1 (comma left by the relocated index)", res.TrailingCommas)
	}
	wantIdx := "CREATE INDEX IF NOT EXISTS idx_id ON w(id);"
	if len(res.Indexes) != 1 || res.Indexes[0] != wantIdx {
		t.Fatalf("Indexes = %q, want [%q]", res.Indexes, wantIdx)
	}
	if strings.Contains(res.Text, "INDEX idx_id ON w(id)\n") {
		t.Fatalf("in-body index declaration still present:\n%s", res.Text)
	}
	idx := strings.Index(res.Text, wantIdx)
	commit := strings.LastIndex(res.Text, "COMMIT;")
	if idx < 0 || commit < idx {
		t.Fatalf("relocated index must precede the final COMMIT:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "id INT\n  /* INDEX idx_id moved to CREATE INDEX */\n);") {
		t.Fatalf("unexpected table body:\n%s", res.Text)
	}
}

func TestNormalizeRelocatesUniqueIndexAtEnd(t *testing.T) {
	in := "CREATE TABLE u (email VARCHAR(255), UNIQUE INDEX uq_email ON u(email));"
	res := normalizeDump(in)

	want := "CREATE TABLE u (email VARCHAR(255) /* UNIQUE INDEX uq_email moved to CREATE UNIQUE INDEX */);\n" +
		"\n-- Indexes relocated out of CREATE TABLE bodies\n" +
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_email ON u(email);\n"
	if res.Text != want {
		t.Fatalf("normalizeDump() = %q, want %q", res.Text, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"CREATE TABLE t (\n  a INT,\n);\n",
		"CREATE TABLE `w` (id INT, INDEX idx_id ON w(id)) ENGINE=InnoDB;\nINSERT INTO `w` VALUES (1);\n",
		"BEGIN;\nCREATE TABLE u (email TEXT, UNIQUE INDEX uq ON u(email),);\nCOMMIT;\n",
	}
	for _, in := range inputs {
		once := normalizeDump(in)
		twice := normalizeDump(once.Text)
		if twice.Text != once.Text {
			t.Fatalf("normalize is not idempotent for %q:\nonce:  %q\ntwice: %q", in, once.Text, twice.Text)
		}
		if twice.Fixes() != 0 {
			t.Fatalf("second pass applied %d fixes for %q", twice.Fixes(), in)
		}
	}
}

func TestNormalizeCleanDumpUnchanged(t *testing.T) {
	in := "-- dump\nCREATE TABLE t (a INT, b TEXT);\nINSERT INTO t VALUES (1, 'x,)');\n"
	res := normalizeDump(in)
	if res.Text != in {
		t.Fatalf("clean dump changed: %q", res.Text)
	}
	if res.Fixes() != 0 || len(res.Indexes) != 0 {
		t.Fatalf("clean dump reported fixes: %+v", res)
	}
}

func TestNormalizeRelocatesPrefixLengthIndex(t *testing.T) {
	in := "CREATE TABLE t (name VARCHAR(50), id INT, INDEX idx_name ON t(name(10), id));\nCOMMIT;\n"
	res := normalizeDump(in)

	if res.RelocatedIndexes != 1 {
		t.Fatalf("RelocatedIndexes = %d, want 1\n%s", res.RelocatedIndexes, res.Text)
	}
	wantIdx := "CREATE INDEX IF NOT EXISTS idx_name ON t(name, id);"
	if res.Indexes[0] != wantIdx {
		t.Fatalf("Indexes[0] = %q, want %q", res.Indexes[0], wantIdx)
	}
	wantBody := "CREATE TABLE t (name VARCHAR(50), id INT /* INDEX idx_name moved to CREATE INDEX, prefix lengths dropped */);"
	if !strings.HasPrefix(res.Text, wantBody) {
		t.Fatalf("normalizeDump() = %q, want prefix %q", res.Text, wantBody)
	}
	if again := normalizeDump(res.Text); again.Text != res.Text {
		t.Fatalf("second pass changed the dump: %q", again.Text)
	}
}
