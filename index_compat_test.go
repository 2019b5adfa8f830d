package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestCollectIndexCompatibilityWarnings(t *testing.T) {
	dump := "CREATE TABLE `posts` (\n" +
		"  id INT,\n" +
		"  body TEXT,\n" +
		"  KEY `idx_body` (`body`(10)),\n" +
		"  UNIQUE KEY uq_id (id),\n" +
		"  FULLTEXT KEY ft_body (body),\n" +
		"  SPATIAL INDEX (loc),\n" +
		"  PRIMARY KEY (id)\n" +
		");\n" +
		"CREATE TABLE clean (a INT, b VARCHAR(10) DEFAULT ', KEY x (y)');\n"

	got := collectIndexCompatibilityWarnings(dump)
	want := []string{
		"posts.idx_body: " + indexUnsupportedReason(""),
		"posts.uq_id: " + indexUnsupportedReason("UNIQUE"),
		"posts.ft_body: " + indexUnsupportedReason("FULLTEXT"),
		"posts.(unnamed): " + indexUnsupportedReason("SPATIAL"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("collectIndexCompatibilityWarnings() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestIndexUnsupportedReason(t *testing.T) {
	for _, kind := range []string{"", "UNIQUE", "FULLTEXT", "SPATIAL"} {
		if indexUnsupportedReason(kind) == "" {
			t.Errorf("indexUnsupportedReason(%q) is empty", kind)
		}
	}
	if !strings.Contains(indexUnsupportedReason("fulltext "), "GIN") {
		t.Error("kind matching must ignore case and surrounding space")
	}
}
